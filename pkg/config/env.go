package config

const EnvPrefix = "CRYPTOBOOKING"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "CRYPTOBOOKING_APP_ENV"
	EnvPort         = "CRYPTOBOOKING_APP_PORT"
	EnvLogLevel     = "CRYPTOBOOKING_LOG_LEVEL"
	EnvLogWarnStack = "CRYPTOBOOKING_LOG_WARN_STACK"

	EnvChainRPCURL          = "CRYPTOBOOKING_CHAIN_RPC_URL"
	EnvChainID              = "CRYPTOBOOKING_CHAIN_ID"
	EnvContractAddress      = "CRYPTOBOOKING_CONTRACT_ADDRESS"
	EnvChainReadTimeout     = "CRYPTOBOOKING_CHAIN_READ_TIMEOUT"
	EnvChainReceiptTimeout  = "CRYPTOBOOKING_CHAIN_RECEIPT_TIMEOUT"
	EnvChainGasLimit        = "CRYPTOBOOKING_CHAIN_GAS_LIMIT"
	EnvBookingFetchParallel = "CRYPTOBOOKING_BOOKING_FETCH_CONCURRENCY"

	EnvWalletPrivateKey         = "CRYPTOBOOKING_WALLET_PRIVATE_KEY"
	EnvWalletKeystoreDir        = "CRYPTOBOOKING_WALLET_KEYSTORE_DIR"
	EnvWalletKeystoreAccount    = "CRYPTOBOOKING_WALLET_KEYSTORE_ACCOUNT"
	EnvWalletKeystorePassphrase = "CRYPTOBOOKING_WALLET_KEYSTORE_PASSPHRASE"

	EnvRedisURL         = "CRYPTOBOOKING_REDIS_URL"
	EnvRedisAddr        = "CRYPTOBOOKING_REDIS_ADDR"
	EnvRedisInFlightTTL = "CRYPTOBOOKING_REDIS_INFLIGHT_TTL"

	EnvSessionIdleTTL      = "CRYPTOBOOKING_SESSION_IDLE_TTL"
	EnvSessionReapInterval = "CRYPTOBOOKING_SESSION_REAP_INTERVAL"

	EnvCORSAllowedOrigins = "CRYPTOBOOKING_CORS_ALLOWED_ORIGINS"
)

// DefaultContractAddress is the deployed rental contract the client talks to
// unless overridden.
const DefaultContractAddress = "0xC8d360977bfA7340a6D7A6AfBF1D6F7034E26254"
