package cert_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/dpmc-io/nft-minting-smart-contract/core/events"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
)

func TestSetMintBoundsValidation(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetMintBounds(big.NewInt(200), big.NewInt(100)); !errors.Is(err, cert.ErrInvalidMintBounds) {
		t.Fatalf("expected ErrInvalidMintBounds, got %v", err)
	}
	// A zero maximum disables the upper bound, so any minimum is valid.
	if err := env.engine.SetMintBounds(big.NewInt(200), big.NewInt(0)); err != nil {
		t.Fatalf("unbounded maximum: %v", err)
	}
	if err := env.engine.SetMintBounds(big.NewInt(-1), big.NewInt(0)); !errors.Is(err, cert.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAdminSettersEmitChangeRecords(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetHolderCap(5); err != nil {
		t.Fatalf("set cap: %v", err)
	}
	last := env.emitted.events[len(env.emitted.events)-1]
	update, ok := last.(events.ParamUpdated)
	if !ok {
		t.Fatalf("last event %T, want ParamUpdated", last)
	}
	if update.Name != "holderCap" || update.Before != "0" || update.After != "5" {
		t.Fatalf("unexpected change record %+v", update)
	}

	params, err := env.manager.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if params.HolderCap != 5 {
		t.Fatalf("cap = %d, want 5", params.HolderCap)
	}
}

func TestAllowlistChangeRecord(t *testing.T) {
	env := newTestEnv(t)
	dest := fixedAddress(0x20)

	if err := env.engine.SetAllowlisted(dest, true); err != nil {
		t.Fatalf("allowlist: %v", err)
	}
	last := env.emitted.events[len(env.emitted.events)-1]
	update, ok := last.(events.ParamUpdated)
	if !ok {
		t.Fatalf("last event %T, want ParamUpdated", last)
	}
	if update.Before != "false" || update.After != "true" {
		t.Fatalf("unexpected change record %+v", update)
	}

	allowed, err := env.manager.Allowlisted(dest)
	if err != nil {
		t.Fatalf("allowlisted: %v", err)
	}
	if !allowed {
		t.Fatal("destination not recorded as allow-listed")
	}
}

func TestPauseChangeRecord(t *testing.T) {
	env := newTestEnv(t)

	if err := env.engine.SetPaused(true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	last := env.emitted.events[len(env.emitted.events)-1]
	update, ok := last.(events.ParamUpdated)
	if !ok {
		t.Fatalf("last event %T, want ParamUpdated", last)
	}
	if update.Name != "paused" || update.Before != "false" || update.After != "true" {
		t.Fatalf("unexpected change record %+v", update)
	}
}
