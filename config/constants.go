package config

const (
	// Public RPC endpoints.
	MainnetRPCURL  = "https://api.mainnet-beta.solana.com"
	TestnetRPCURL  = "https://api.testnet.solana.com"
	DevnetRPCURL   = "https://api.devnet.solana.com"
	LocalnetRPCURL = "http://127.0.0.1:8899"

	// Environment variables recognised by LoadEnv.
	EnvVarEnv        = "LEDGER_ENV"
	EnvVarRPCURL     = "LEDGER_RPC_URL"
	EnvVarProgramID  = "LEDGER_PROGRAM_ID"
	EnvVarKeypair    = "LEDGER_KEYPAIR"
	EnvVarCommitment = "LEDGER_COMMITMENT"
	EnvVarEncoding   = "LEDGER_ENCODING"
)
