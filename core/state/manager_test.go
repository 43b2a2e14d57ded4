package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
	"github.com/dpmc-io/nft-minting-smart-contract/storage"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })
	return NewManager(db)
}

func testAddress(b byte) crypto.Address {
	var a crypto.Address
	for i := range a {
		a[i] = b
	}
	return a
}

func TestCertificateRoundTrip(t *testing.T) {
	m := newTestManager(t)

	_, ok, err := m.Certificate(1)
	require.NoError(t, err)
	require.False(t, ok)

	want := &cert.Certificate{Value: big.NewInt(123456), IssuedAt: 1693485296}
	require.NoError(t, m.PutCertificate(1, want))

	got, ok, err := m.Certificate(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, got.Value.Cmp(want.Value))
	require.Equal(t, want.IssuedAt, got.IssuedAt)
}

func TestNextTokenIDDefaultsToOne(t *testing.T) {
	m := newTestManager(t)

	next, err := m.NextTokenID()
	require.NoError(t, err)
	require.Equal(t, uint64(1), next)

	require.NoError(t, m.SetNextTokenID(7))
	next, err = m.NextTokenID()
	require.NoError(t, err)
	require.Equal(t, uint64(7), next)
}

func TestOwnershipCount(t *testing.T) {
	m := newTestManager(t)
	holder := testAddress(0xaa)

	count, err := m.OwnershipCount(holder)
	require.NoError(t, err)
	require.Zero(t, count)

	require.NoError(t, m.SetOwnershipCount(holder, 5))
	count, err = m.OwnershipCount(holder)
	require.NoError(t, err)
	require.Equal(t, uint64(5), count)
}

func TestVoucherConsumption(t *testing.T) {
	m := newTestManager(t)
	sig := make([]byte, crypto.SignatureLength)
	sig[0] = 0x42

	consumed, err := m.VoucherConsumed(sig)
	require.NoError(t, err)
	require.False(t, consumed)

	require.NoError(t, m.MarkVoucherConsumed(sig))
	consumed, err = m.VoucherConsumed(sig)
	require.NoError(t, err)
	require.True(t, consumed)

	other := make([]byte, crypto.SignatureLength)
	other[0] = 0x43
	consumed, err = m.VoucherConsumed(other)
	require.NoError(t, err)
	require.False(t, consumed)
}

func TestAllowlist(t *testing.T) {
	m := newTestManager(t)
	dest := testAddress(0x11)

	allowed, err := m.Allowlisted(dest)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, m.SetAllowlisted(dest, true))
	allowed, err = m.Allowlisted(dest)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, m.SetAllowlisted(dest, false))
	allowed, err = m.Allowlisted(dest)
	require.NoError(t, err)
	require.False(t, allowed)
}

func TestParamsRoundTrip(t *testing.T) {
	m := newTestManager(t)

	defaults, err := m.Params()
	require.NoError(t, err)
	require.Zero(t, defaults.HolderCap)
	require.Zero(t, defaults.MinToMint.Sign())
	require.False(t, defaults.TransferRestricted)

	want := &cert.Params{
		Signer:             testAddress(0x01),
		PaymentToken:       testAddress(0x02),
		PaymentPool:        testAddress(0x03),
		StakingAddress:     testAddress(0x04),
		RedeemAddress:      testAddress(0x05),
		MinToMint:          big.NewInt(100),
		MaxToMint:          big.NewInt(1000),
		HolderCap:          5,
		TransferRestricted: true,
	}
	require.NoError(t, m.SetParams(want))

	got, err := m.Params()
	require.NoError(t, err)
	require.Equal(t, want.Signer, got.Signer)
	require.Equal(t, want.RedeemAddress, got.RedeemAddress)
	require.Zero(t, got.MinToMint.Cmp(want.MinToMint))
	require.Zero(t, got.MaxToMint.Cmp(want.MaxToMint))
	require.Equal(t, want.HolderCap, got.HolderCap)
	require.True(t, got.TransferRestricted)
}

func TestPausedFlag(t *testing.T) {
	m := newTestManager(t)

	paused, err := m.Paused()
	require.NoError(t, err)
	require.False(t, paused)

	require.NoError(t, m.SetPaused(true))
	paused, err = m.Paused()
	require.NoError(t, err)
	require.True(t, paused)

	require.NoError(t, m.SetPaused(false))
	paused, err = m.Paused()
	require.NoError(t, err)
	require.False(t, paused)
}

func TestHasParamsTracksFirstWrite(t *testing.T) {
	m := newTestManager(t)

	seeded, err := m.HasParams()
	require.NoError(t, err)
	require.False(t, seeded)

	require.NoError(t, m.SetParams(&cert.Params{HolderCap: 3}))

	seeded, err = m.HasParams()
	require.NoError(t, err)
	require.True(t, seeded)
}
