package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/ledgerclient/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadFile(t *testing.T) {
	t.Parallel()

	programID := solana.NewWallet().PublicKey()
	path := filepath.Join(t.TempDir(), "ledger.yaml")
	contents := `
env: devnet
program_id: ` + programID.String() + `
commitment: finalized
encoding: borsh
request_timeout: 15s
confirmation_timeout: 2m
headers:
  x-api-key: secret
requests_per_second: 10
burst: 5
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, &config.ClientConfig{
		Env:                 config.EnvDevnet,
		ProgramID:           programID.String(),
		Commitment:          "finalized",
		Encoding:            "borsh",
		RequestTimeout:      15 * time.Second,
		ConfirmationTimeout: 2 * time.Minute,
		Headers:             map[string]string{"x-api-key": "secret"},
		RequestsPerSecond:   10,
		Burst:               5,
	}, cfg)
}

func TestConfig_LoadFile_Errors(t *testing.T) {
	t.Parallel()

	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: [unterminated"), 0o600))
	_, err = config.LoadFile(path)
	require.ErrorContains(t, err, "failed to parse config file")
}

func TestConfig_ClientConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		config.EnvVarRPCURL:    "http://127.0.0.1:9000",
		config.EnvVarProgramID: "from-env",
		config.EnvVarEncoding:  "",
	}
	cfg := &config.ClientConfig{
		RPCURL:    "http://file",
		ProgramID: "from-file",
		Encoding:  "borsh",
		Keypair:   "/keys/id.json",
	}
	cfg.ApplyEnv(func(k string) string { return env[k] })

	require.Equal(t, "http://127.0.0.1:9000", cfg.RPCURL)
	require.Equal(t, "from-env", cfg.ProgramID)
	require.Equal(t, "borsh", cfg.Encoding)
	require.Equal(t, "/keys/id.json", cfg.Keypair)
}

func TestConfig_ClientConfig_Validate(t *testing.T) {
	t.Setenv(config.EnvVarRPCURL, "")
	programID := solana.NewWallet().PublicKey().String()

	cfg := &config.ClientConfig{Env: config.EnvTestnet, ProgramID: programID}
	require.NoError(t, cfg.Validate())
	require.Equal(t, config.TestnetRPCURL, cfg.RPCURL)

	cfg = &config.ClientConfig{RPCURL: "http://localhost:8899", ProgramID: programID}
	require.NoError(t, cfg.Validate())
	require.Equal(t, "http://localhost:8899", cfg.RPCURL)

	cfg = &config.ClientConfig{ProgramID: programID}
	require.ErrorIs(t, cfg.Validate(), config.ErrRPCURLRequired)

	cfg = &config.ClientConfig{Env: "moon", ProgramID: programID}
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidEnvironment)

	cfg = &config.ClientConfig{Env: config.EnvDevnet}
	require.NoError(t, cfg.Validate())
	require.ErrorIs(t, cfg.RequireProgramID(), config.ErrProgramIDRequired)
	pk, err := cfg.ProgramPublicKey()
	require.NoError(t, err)
	require.True(t, pk.IsZero())

	cfg = &config.ClientConfig{Env: config.EnvDevnet, ProgramID: "not-base58-0OIl"}
	require.ErrorContains(t, cfg.Validate(), "invalid program id")
}
