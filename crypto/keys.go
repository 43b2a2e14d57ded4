package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength is the canonical length of a recoverable secp256k1
// signature: 32 bytes R, 32 bytes S and one recovery byte.
const SignatureLength = 65

// Address represents a 20-byte account or contract address.
type Address [20]byte

// ZeroAddress is the all-zero address.
var ZeroAddress = Address{}

func NewAddress(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("address must be 20 bytes, got %d", len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// MustNewAddress is a convenience wrapper for fixtures and wiring code.
func MustNewAddress(b []byte) Address {
	a, err := NewAddress(b)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == ZeroAddress }

// String renders the address as a 0x-prefixed lowercase hex string.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// DecodeAddress parses a 0x-prefixed (or bare) hex address string.
func DecodeAddress(s string) (Address, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex address: %w", err)
	}
	return NewAddress(raw)
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(ethcrypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return ethcrypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

func (k *PublicKey) Address() Address {
	return Address(ethcrypto.PubkeyToAddress(*k.PublicKey))
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := ethcrypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Sign produces a 65-byte recoverable signature over a 32-byte digest.
func (k *PrivateKey) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return ethcrypto.Sign(digest, k.PrivateKey)
}

// Keccak256 hashes the concatenation of the supplied byte slices.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}

// PrefixedDigest wraps a 32-byte digest in the standard signed-message
// envelope so signatures produced by common wallet tooling recover cleanly.
func PrefixedDigest(digest []byte) []byte {
	return ethcrypto.Keccak256([]byte("\x19Ethereum Signed Message:\n32"), digest)
}

// RecoverAddress returns the address that produced the signature over the
// (unprefixed) digest. The recovery byte may be 0/1 or 27/28.
func RecoverAddress(digest, signature []byte) (Address, error) {
	if len(signature) != SignatureLength {
		return Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(signature))
	}
	sig := make([]byte, SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	pub, err := ethcrypto.SigToPub(PrefixedDigest(digest), sig)
	if err != nil {
		return Address{}, fmt.Errorf("recover signer: %w", err)
	}
	return Address(ethcrypto.PubkeyToAddress(*pub)), nil
}
