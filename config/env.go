package config

import (
	"fmt"
	"os"
)

const (
	EnvMainnetBeta = "mainnet-beta"
	EnvMainnet     = "mainnet"
	EnvTestnet     = "testnet"
	EnvDevnet      = "devnet"
	EnvLocalnet    = "localnet"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
)

type NetworkConfig struct {
	Moniker string
	RPCURL  string
}

// NetworkConfigForEnv returns the public endpoint of a named cluster. LEDGER_RPC_URL, when set,
// replaces the endpoint.
func NetworkConfigForEnv(env string) (*NetworkConfig, error) {
	var config *NetworkConfig
	switch env {
	case EnvMainnetBeta, EnvMainnet:
		config = &NetworkConfig{
			Moniker: EnvMainnetBeta,
			RPCURL:  MainnetRPCURL,
		}
	case EnvTestnet:
		config = &NetworkConfig{
			Moniker: EnvTestnet,
			RPCURL:  TestnetRPCURL,
		}
	case EnvDevnet:
		config = &NetworkConfig{
			Moniker: EnvDevnet,
			RPCURL:  DevnetRPCURL,
		}
	case EnvLocalnet:
		config = &NetworkConfig{
			Moniker: EnvLocalnet,
			RPCURL:  LocalnetRPCURL,
		}
	default:
		return nil, fmt.Errorf("%w: %q, must be one of: %s, %s, %s, %s", ErrInvalidEnvironment, env, EnvMainnetBeta, EnvTestnet, EnvDevnet, EnvLocalnet)
	}

	if rpcURL := os.Getenv(EnvVarRPCURL); rpcURL != "" {
		config.RPCURL = rpcURL
	}
	return config, nil
}
