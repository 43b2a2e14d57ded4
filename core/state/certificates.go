package state

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
)

type storedCertificate struct {
	Value    *big.Int
	IssuedAt uint64
}

func certTokenKey(id uint64) []byte {
	var suffix [8]byte
	binary.BigEndian.PutUint64(suffix[:], id)
	return prefixedKey(certTokenPrefix, suffix[:])
}

// PutCertificate persists the immutable per-token record.
func (m *Manager) PutCertificate(id uint64, c *cert.Certificate) error {
	if err := m.ready(); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("state: nil certificate")
	}
	value := c.Value
	if value == nil {
		value = big.NewInt(0)
	}
	encoded, err := rlp.EncodeToBytes(&storedCertificate{Value: value, IssuedAt: c.IssuedAt})
	if err != nil {
		return err
	}
	return m.db.Put(certTokenKey(id), encoded)
}

// Certificate loads a token record. The second return reports existence.
func (m *Manager) Certificate(id uint64) (*cert.Certificate, bool, error) {
	if err := m.ready(); err != nil {
		return nil, false, err
	}
	data, err := m.db.Get(certTokenKey(id))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	var stored storedCertificate
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, false, err
	}
	return &cert.Certificate{Value: stored.Value, IssuedAt: stored.IssuedAt}, true, nil
}

// NextTokenID returns the id the next mint will use. Ids start at 1.
func (m *Manager) NextTokenID() (uint64, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	data, err := m.db.Get(certCounterKey)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 1, nil
	}
	var next uint64
	if err := rlp.DecodeBytes(data, &next); err != nil {
		return 0, err
	}
	return next, nil
}

// SetNextTokenID advances the id counter.
func (m *Manager) SetNextTokenID(id uint64) error {
	if err := m.ready(); err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(id)
	if err != nil {
		return err
	}
	return m.db.Put(certCounterKey, encoded)
}
