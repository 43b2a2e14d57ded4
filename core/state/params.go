package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
)

type storedParams struct {
	Signer             crypto.Address
	PaymentToken       crypto.Address
	PaymentPool        crypto.Address
	StakingAddress     crypto.Address
	RedeemAddress      crypto.Address
	MinToMint          *big.Int
	MaxToMint          *big.Int
	HolderCap          uint64
	TransferRestricted bool
}

// HasParams reports whether configuration scalars have ever been persisted,
// distinguishing a first boot from a store carrying admin-made changes.
func (m *Manager) HasParams() (bool, error) {
	if err := m.ready(); err != nil {
		return false, err
	}
	data, err := m.db.Get(certParamsKey)
	if err != nil {
		return false, err
	}
	return len(data) > 0, nil
}

// Params loads the configuration scalars, defaulting when never written.
func (m *Manager) Params() (*cert.Params, error) {
	if err := m.ready(); err != nil {
		return nil, err
	}
	data, err := m.db.Get(certParamsKey)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return cert.DefaultParams(), nil
	}
	var stored storedParams
	if err := rlp.DecodeBytes(data, &stored); err != nil {
		return nil, err
	}
	p := &cert.Params{
		Signer:             stored.Signer,
		PaymentToken:       stored.PaymentToken,
		PaymentPool:        stored.PaymentPool,
		StakingAddress:     stored.StakingAddress,
		RedeemAddress:      stored.RedeemAddress,
		MinToMint:          stored.MinToMint,
		MaxToMint:          stored.MaxToMint,
		HolderCap:          stored.HolderCap,
		TransferRestricted: stored.TransferRestricted,
	}
	return p.Normalize(), nil
}

// SetParams persists the configuration scalars.
func (m *Manager) SetParams(p *cert.Params) error {
	if err := m.ready(); err != nil {
		return err
	}
	if p == nil {
		p = cert.DefaultParams()
	}
	p = p.Clone().Normalize()
	encoded, err := rlp.EncodeToBytes(&storedParams{
		Signer:             p.Signer,
		PaymentToken:       p.PaymentToken,
		PaymentPool:        p.PaymentPool,
		StakingAddress:     p.StakingAddress,
		RedeemAddress:      p.RedeemAddress,
		MinToMint:          p.MinToMint,
		MaxToMint:          p.MaxToMint,
		HolderCap:          p.HolderCap,
		TransferRestricted: p.TransferRestricted,
	})
	if err != nil {
		return err
	}
	return m.db.Put(certParamsKey, encoded)
}

// Paused reports the lifecycle flag. Missing entries default to unpaused.
func (m *Manager) Paused() (bool, error) {
	if err := m.ready(); err != nil {
		return false, err
	}
	data, err := m.db.Get(certPausedKey)
	if err != nil {
		return false, err
	}
	return len(data) == 1 && data[0] == 0x01, nil
}

// SetPaused persists the lifecycle flag.
func (m *Manager) SetPaused(paused bool) error {
	if err := m.ready(); err != nil {
		return err
	}
	if paused {
		return m.db.Put(certPausedKey, []byte{0x01})
	}
	return m.db.Put(certPausedKey, []byte{})
}
