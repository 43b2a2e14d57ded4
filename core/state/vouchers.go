package state

// The consumed-signature set is keyed by the raw signature bytes. A key is
// written exactly once; entries are never cleared, which is what makes a
// consumed voucher permanently unusable.

// VoucherConsumed reports whether the signature has already authorized a mint.
func (m *Manager) VoucherConsumed(signature []byte) (bool, error) {
	if err := m.ready(); err != nil {
		return false, err
	}
	data, err := m.db.Get(prefixedKey(certVoucherPrefix, signature))
	if err != nil {
		return false, err
	}
	return len(data) == 1 && data[0] == 0x01, nil
}

// MarkVoucherConsumed permanently retires the signature.
func (m *Manager) MarkVoucherConsumed(signature []byte) error {
	if err := m.ready(); err != nil {
		return err
	}
	return m.db.Put(prefixedKey(certVoucherPrefix, signature), []byte{0x01})
}
