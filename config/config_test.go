package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg.ListenAddress != ":8545" {
		t.Fatalf("listen address = %q", cfg.ListenAddress)
	}
	minToMint, maxToMint, err := cfg.MintBounds()
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if minToMint.Sign() != 0 || maxToMint.Sign() != 0 {
		t.Fatalf("default bounds = %s/%s, want 0/0", minToMint, maxToMint)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
ListenAddress = ":9000"
TokenName = "Test Certificate"
MinToMint = "100"
MaxToMint = "200"
HolderCap = 5
TransferRestricted = true
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != ":9000" {
		t.Fatalf("listen address = %q", cfg.ListenAddress)
	}
	if cfg.HolderCap != 5 || !cfg.TransferRestricted {
		t.Fatalf("unexpected config %+v", cfg)
	}
	minToMint, maxToMint, err := cfg.MintBounds()
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if minToMint.Int64() != 100 || maxToMint.Int64() != 200 {
		t.Fatalf("bounds = %s/%s", minToMint, maxToMint)
	}
}

func TestValidateRejectsInvertedBounds(t *testing.T) {
	cfg := Default()
	cfg.MinToMint = "200"
	cfg.MaxToMint = "100"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	// A zero maximum disables the upper bound.
	cfg.MaxToMint = "0"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unbounded maximum: %v", err)
	}
}

func TestAdminKeyEnvOverride(t *testing.T) {
	t.Setenv(AdminKeyEnv, "secret-from-env")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AdminAPIKey != "secret-from-env" {
		t.Fatalf("admin key = %q", cfg.AdminAPIKey)
	}
}
