package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dpmc-io/nft-minting-smart-contract/config"
	"github.com/dpmc-io/nft-minting-smart-contract/core/state"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
	"github.com/dpmc-io/nft-minting-smart-contract/observability"
	"github.com/dpmc-io/nft-minting-smart-contract/observability/logging"
	"github.com/dpmc-io/nft-minting-smart-contract/rpc"
	"github.com/dpmc-io/nft-minting-smart-contract/storage"
	"github.com/dpmc-io/nft-minting-smart-contract/token"
)

func main() {
	configFile := flag.String("config", "", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.Setup("certd", cfg.Environment)

	db, err := openDatabase(cfg.DataDir)
	if err != nil {
		logger.Error("Failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	engine, err := buildEngine(cfg, db)
	if err != nil {
		logger.Error("Failed to configure engine", slog.Any("error", err))
		os.Exit(1)
	}

	server := rpc.NewServer(engine, rpc.Options{
		Logger:        logger,
		AdminAPIKey:   cfg.AdminAPIKey,
		RatePerMinute: cfg.RateLimitPerMinute,
		RateBurst:     cfg.RateLimitBurst,
		Metrics:       observability.Metrics(),
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("certificate service listening", slog.String("address", cfg.ListenAddress))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("error", err))
			os.Exit(1)
		}
	}
}

func openDatabase(dataDir string) (storage.Database, error) {
	if strings.TrimSpace(dataDir) == "" {
		return storage.NewMemDB(), nil
	}
	return storage.NewLevelDB(dataDir)
}

// buildEngine wires the engine from the configuration. Persisted params are
// seeded from the config only on a first boot against an empty store; after
// that the stored values, including any changed through the admin API,
// survive restarts untouched.
func buildEngine(cfg *config.Config, db storage.Database) (*cert.Engine, error) {
	manager := state.NewManager(db)
	engine := cert.NewEngine(manager)

	engine.SetPaymentToken(token.NewMemory(cfg.PaymentSymbol, cfg.PaymentDecimals))
	engine.SetLedger(token.NewLedger())
	engine.SetTokenInfo(cert.TokenInfo{
		Name:        cfg.TokenName,
		Symbol:      cfg.TokenSymbol,
		Description: cfg.TokenDescription,
	})

	if addr, ok, err := optionalAddress("ContractAddress", cfg.ContractAddress); err != nil {
		return nil, err
	} else if ok {
		engine.SetSelfAddress(addr)
	}

	seeded, err := manager.HasParams()
	if err != nil {
		return nil, err
	}
	if seeded {
		return engine, nil
	}

	if addr, ok, err := optionalAddress("Signer", cfg.Signer); err != nil {
		return nil, err
	} else if ok {
		if err := engine.SetSigner(addr); err != nil {
			return nil, err
		}
	}
	if addr, ok, err := optionalAddress("PaymentTokenAddress", cfg.PaymentTokenAddress); err != nil {
		return nil, err
	} else if ok {
		if err := engine.SetPaymentTokenAddress(addr); err != nil {
			return nil, err
		}
	}
	if addr, ok, err := optionalAddress("PaymentPool", cfg.PaymentPool); err != nil {
		return nil, err
	} else if ok {
		if err := engine.SetPaymentPool(addr); err != nil {
			return nil, err
		}
	}
	if addr, ok, err := optionalAddress("StakingAddress", cfg.StakingAddress); err != nil {
		return nil, err
	} else if ok {
		if err := engine.SetStakingAddress(addr); err != nil {
			return nil, err
		}
	}
	if addr, ok, err := optionalAddress("RedeemAddress", cfg.RedeemAddress); err != nil {
		return nil, err
	} else if ok {
		if err := engine.SetRedeemAddress(addr); err != nil {
			return nil, err
		}
	}

	minToMint, maxToMint, err := cfg.MintBounds()
	if err != nil {
		return nil, err
	}
	if err := engine.SetMintBounds(minToMint, maxToMint); err != nil {
		return nil, err
	}
	if err := engine.SetHolderCap(cfg.HolderCap); err != nil {
		return nil, err
	}
	if err := engine.SetTransferRestricted(cfg.TransferRestricted); err != nil {
		return nil, err
	}
	return engine, nil
}

func optionalAddress(field, raw string) (crypto.Address, bool, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return crypto.Address{}, false, nil
	}
	addr, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return crypto.Address{}, false, fmt.Errorf("config: %s: %w", field, err)
	}
	return addr, true, nil
}
