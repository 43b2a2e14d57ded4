package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// AdminKeyEnv names the environment variable that overrides the admin API key
// so the secret can stay out of the config file.
const AdminKeyEnv = "CERTD_ADMIN_KEY"

type Config struct {
	ListenAddress      string  `toml:"ListenAddress"`
	DataDir            string  `toml:"DataDir"`
	Environment        string  `toml:"Environment"`
	AdminAPIKey        string  `toml:"AdminAPIKey"`
	RateLimitPerMinute float64 `toml:"RateLimitPerMinute"`
	RateLimitBurst     int     `toml:"RateLimitBurst"`

	TokenName        string `toml:"TokenName"`
	TokenSymbol      string `toml:"TokenSymbol"`
	TokenDescription string `toml:"TokenDescription"`
	ContractAddress  string `toml:"ContractAddress"`

	Signer              string `toml:"Signer"`
	PaymentTokenAddress string `toml:"PaymentTokenAddress"`
	PaymentPool         string `toml:"PaymentPool"`
	PaymentSymbol       string `toml:"PaymentSymbol"`
	PaymentDecimals     uint8  `toml:"PaymentDecimals"`

	MinToMint          string `toml:"MinToMint"`
	MaxToMint          string `toml:"MaxToMint"`
	HolderCap          uint64 `toml:"HolderCap"`
	TransferRestricted bool   `toml:"TransferRestricted"`
	StakingAddress     string `toml:"StakingAddress"`
	RedeemAddress      string `toml:"RedeemAddress"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		ListenAddress:      ":8545",
		Environment:        "dev",
		RateLimitPerMinute: 600,
		RateLimitBurst:     60,
		TokenName:          "DPMC Certificate",
		TokenSymbol:        "DPMC",
		TokenDescription:   "Payment-backed certificate issued against a signed voucher.",
		PaymentSymbol:      "USDT",
		PaymentDecimals:    6,
		MinToMint:          "0",
		MaxToMint:          "0",
	}
}

// Load reads the TOML file at path, applies defaults and the environment
// override for the admin key, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}
	if key := strings.TrimSpace(os.Getenv(AdminKeyEnv)); key != "" {
		cfg.AdminAPIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MintBounds parses the configured bounds as scaled integers.
func (c *Config) MintBounds() (minToMint, maxToMint *big.Int, err error) {
	minToMint, err = parseAmount("MinToMint", c.MinToMint)
	if err != nil {
		return nil, nil, err
	}
	maxToMint, err = parseAmount("MaxToMint", c.MaxToMint)
	if err != nil {
		return nil, nil, err
	}
	return minToMint, maxToMint, nil
}

func parseAmount(field, raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("config: %s: invalid amount %q", field, raw)
	}
	if value.Sign() < 0 {
		return nil, fmt.Errorf("config: %s: amount must not be negative", field)
	}
	return value, nil
}

// Validate checks the structural constraints the service relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress required")
	}
	if strings.TrimSpace(c.TokenName) == "" {
		return fmt.Errorf("config: TokenName required")
	}
	minToMint, maxToMint, err := c.MintBounds()
	if err != nil {
		return err
	}
	if maxToMint.Sign() > 0 && minToMint.Cmp(maxToMint) > 0 {
		return fmt.Errorf("config: MinToMint %s exceeds MaxToMint %s", minToMint, maxToMint)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("config: RateLimitPerMinute must not be negative")
	}
	if c.RateLimitBurst < 0 {
		return fmt.Errorf("config: RateLimitBurst must not be negative")
	}
	return nil
}
