package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Chain   ChainConfig
	Wallet  WalletConfig
	Redis   RedisConfig
	Session SessionConfig
	CORS    CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Chain.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CRYPTOBOOKING_APP_ENV" required:"true"`
	Port         string `envconfig:"CRYPTOBOOKING_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CRYPTOBOOKING_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CRYPTOBOOKING_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ChainConfig struct {
	RPCURL                  string        `envconfig:"CRYPTOBOOKING_CHAIN_RPC_URL"`
	ChainID                 int64         `envconfig:"CRYPTOBOOKING_CHAIN_ID" default:"0"`
	ContractAddress         string        `envconfig:"CRYPTOBOOKING_CONTRACT_ADDRESS" default:"0xC8d360977bfA7340a6D7A6AfBF1D6F7034E26254"`
	ReadTimeout             time.Duration `envconfig:"CRYPTOBOOKING_CHAIN_READ_TIMEOUT" default:"15s"`
	ReceiptTimeout          time.Duration `envconfig:"CRYPTOBOOKING_CHAIN_RECEIPT_TIMEOUT" default:"0s"`
	GasLimit                uint64        `envconfig:"CRYPTOBOOKING_CHAIN_GAS_LIMIT" default:"0"`
	BookingFetchConcurrency int           `envconfig:"CRYPTOBOOKING_BOOKING_FETCH_CONCURRENCY" default:"4"`
}

// Address returns the parsed contract address.
func (c ChainConfig) Address() common.Address {
	return common.HexToAddress(c.ContractAddress)
}

func (c ChainConfig) validate() error {
	if !common.IsHexAddress(strings.TrimSpace(c.ContractAddress)) {
		return fmt.Errorf("%s must be a hex address, got %q", EnvContractAddress, c.ContractAddress)
	}
	if c.ChainID < 0 {
		return errors.New("chain id must not be negative")
	}
	if c.BookingFetchConcurrency <= 0 {
		return fmt.Errorf("%s must be positive", EnvBookingFetchParallel)
	}
	return nil
}

type WalletConfig struct {
	PrivateKey         string `envconfig:"CRYPTOBOOKING_WALLET_PRIVATE_KEY"`
	KeystoreDir        string `envconfig:"CRYPTOBOOKING_WALLET_KEYSTORE_DIR"`
	KeystoreAccount    string `envconfig:"CRYPTOBOOKING_WALLET_KEYSTORE_ACCOUNT"`
	KeystorePassphrase string `envconfig:"CRYPTOBOOKING_WALLET_KEYSTORE_PASSPHRASE"`
}

// Configured reports whether any signing source is present.
func (w WalletConfig) Configured() bool {
	return strings.TrimSpace(w.PrivateKey) != "" || strings.TrimSpace(w.KeystoreDir) != ""
}

type RedisConfig struct {
	URL          string        `envconfig:"CRYPTOBOOKING_REDIS_URL"`
	Address      string        `envconfig:"CRYPTOBOOKING_REDIS_ADDR"`
	Password     string        `envconfig:"CRYPTOBOOKING_REDIS_PASSWORD"`
	DB           int           `envconfig:"CRYPTOBOOKING_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CRYPTOBOOKING_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CRYPTOBOOKING_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CRYPTOBOOKING_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CRYPTOBOOKING_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CRYPTOBOOKING_REDIS_WRITE_TIMEOUT" default:"5s"`
	InFlightTTL  time.Duration `envconfig:"CRYPTOBOOKING_REDIS_INFLIGHT_TTL" default:"10m"`
}

// Enabled reports whether a redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type SessionConfig struct {
	IdleTTL      time.Duration `envconfig:"CRYPTOBOOKING_SESSION_IDLE_TTL" default:"30m"`
	ReapInterval time.Duration `envconfig:"CRYPTOBOOKING_SESSION_REAP_INTERVAL" default:"1m"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CRYPTOBOOKING_CORS_ALLOWED_ORIGINS" default:"*"`
}
