package token

import (
	"errors"
	"sync"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

var (
	ErrTokenExists   = errors.New("token: id already minted")
	ErrNotTokenOwner = errors.New("token: source does not own id")
)

// Ledger is an in-memory ownership ledger: one owner per token id.
type Ledger struct {
	mu     sync.RWMutex
	owners map[uint64]crypto.Address
}

func NewLedger() *Ledger {
	return &Ledger{owners: make(map[uint64]crypto.Address)}
}

func (l *Ledger) OwnerOf(tokenID uint64) (crypto.Address, bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	owner, ok := l.owners[tokenID]
	return owner, ok, nil
}

func (l *Ledger) Mint(to crypto.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.owners[tokenID]; ok {
		return ErrTokenExists
	}
	l.owners[tokenID] = to
	return nil
}

func (l *Ledger) Transfer(from, to crypto.Address, tokenID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	owner, ok := l.owners[tokenID]
	if !ok || owner != from {
		return ErrNotTokenOwner
	}
	l.owners[tokenID] = to
	return nil
}
