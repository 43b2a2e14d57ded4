package state

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// OwnershipCount returns the number of certificates attributed to the holder
// for cap enforcement. Missing entries default to zero.
func (m *Manager) OwnershipCount(addr crypto.Address) (uint64, error) {
	if err := m.ready(); err != nil {
		return 0, err
	}
	data, err := m.db.Get(prefixedKey(certOwnedPrefix, addr.Bytes()))
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	var count uint64
	if err := rlp.DecodeBytes(data, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// SetOwnershipCount overwrites the holder's attributed count.
func (m *Manager) SetOwnershipCount(addr crypto.Address, count uint64) error {
	if err := m.ready(); err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(count)
	if err != nil {
		return err
	}
	return m.db.Put(prefixedKey(certOwnedPrefix, addr.Bytes()), encoded)
}

// Allowlisted reports whether the address is an exempt transfer destination.
func (m *Manager) Allowlisted(addr crypto.Address) (bool, error) {
	if err := m.ready(); err != nil {
		return false, err
	}
	data, err := m.db.Get(prefixedKey(certAllowPrefix, addr.Bytes()))
	if err != nil {
		return false, err
	}
	return len(data) == 1 && data[0] == 0x01, nil
}

// SetAllowlisted adds or removes the address from the allow-list.
func (m *Manager) SetAllowlisted(addr crypto.Address, allowed bool) error {
	if err := m.ready(); err != nil {
		return err
	}
	key := prefixedKey(certAllowPrefix, addr.Bytes())
	if allowed {
		return m.db.Put(key, []byte{0x01})
	}
	return m.db.Put(key, []byte{})
}
