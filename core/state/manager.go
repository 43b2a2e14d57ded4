package state

import (
	"errors"

	"github.com/dpmc-io/nft-minting-smart-contract/storage"
)

// ErrNoDatabase indicates the manager was constructed without a backend.
var ErrNoDatabase = errors.New("state: database unavailable")

// Manager exposes typed accessors over the raw key-value store. Every
// persisted surface of the certificate service goes through it: the token
// counter, per-token state, ownership counts, the consumed-signature set, the
// allow-list and the configuration scalars.
type Manager struct {
	db storage.Database
}

func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

func (m *Manager) ready() error {
	if m == nil || m.db == nil {
		return ErrNoDatabase
	}
	return nil
}
