package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}
	if cfg.Chain.ContractAddress != DefaultContractAddress {
		t.Fatalf("expected default contract address, got %q", cfg.Chain.ContractAddress)
	}
	if cfg.Chain.ReadTimeout != 15*time.Second {
		t.Fatalf("expected 15s read timeout, got %v", cfg.Chain.ReadTimeout)
	}
	if cfg.Chain.ReceiptTimeout != 0 {
		t.Fatalf("receipt wait should be unbounded by default, got %v", cfg.Chain.ReceiptTimeout)
	}
	if cfg.Session.IdleTTL != 30*time.Minute {
		t.Fatalf("unexpected idle ttl %v", cfg.Session.IdleTTL)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without url or address")
	}
	if cfg.Wallet.Configured() {
		t.Fatalf("wallet should not be configured")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ChainOverrides(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvChainRPCURL, "http://127.0.0.1:8545")
	t.Setenv(EnvChainID, "31337")
	t.Setenv(EnvContractAddress, "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	t.Setenv(EnvWalletPrivateKey, "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Chain.ChainID != 31337 {
		t.Fatalf("unexpected chain id %d", cfg.Chain.ChainID)
	}
	if cfg.Chain.Address().Hex() != "0x5FbDB2315678afecb367f032d93F642f64180aa3" {
		t.Fatalf("unexpected contract address %s", cfg.Chain.Address().Hex())
	}
	if !cfg.Wallet.Configured() || !cfg.Redis.Enabled() {
		t.Fatalf("expected wallet and redis to be configured")
	}
}

func TestLoad_RejectsBadContractAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvContractAddress, "not-an-address")

	if _, err := Load(); err == nil {
		t.Fatal("expected invalid contract address to fail")
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvAppEnv); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvAppEnv, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvPort, "8081")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
