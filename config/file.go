package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gagliardetto/solana-go"
	"gopkg.in/yaml.v3"
)

var (
	ErrRPCURLRequired    = errors.New("rpc url is required")
	ErrProgramIDRequired = errors.New("program id is required")
)

// ClientConfig is the operator-facing configuration of a ledger client. It is assembled from
// a YAML file, the process environment and command-line flags, in increasing precedence.
type ClientConfig struct {
	Env                 string            `yaml:"env"`
	RPCURL              string            `yaml:"rpc_url"`
	ProgramID           string            `yaml:"program_id"`
	Keypair             string            `yaml:"keypair"`
	Commitment          string            `yaml:"commitment"`
	Encoding            string            `yaml:"encoding"`
	RequestTimeout      time.Duration     `yaml:"request_timeout"`
	ConfirmationTimeout time.Duration     `yaml:"confirmation_timeout"`
	Headers             map[string]string `yaml:"headers"`
	RequestsPerSecond   float64           `yaml:"requests_per_second"`
	Burst               int               `yaml:"burst"`
}

func LoadFile(path string) (*ClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg ClientConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields with the non-empty LEDGER_* variables returned by getenv.
func (c *ClientConfig) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Env, EnvVarEnv)
	set(&c.RPCURL, EnvVarRPCURL)
	set(&c.ProgramID, EnvVarProgramID)
	set(&c.Keypair, EnvVarKeypair)
	set(&c.Commitment, EnvVarCommitment)
	set(&c.Encoding, EnvVarEncoding)
}

// Validate fills the RPC URL from the named environment when it is not set explicitly and
// checks that the program id, when set, is a valid public key. Commands that send program
// instructions also call RequireProgramID.
func (c *ClientConfig) Validate() error {
	if c.RPCURL == "" {
		if c.Env == "" {
			return ErrRPCURLRequired
		}
		network, err := NetworkConfigForEnv(c.Env)
		if err != nil {
			return err
		}
		c.RPCURL = network.RPCURL
	}
	if c.ProgramID == "" {
		return nil
	}
	if _, err := solana.PublicKeyFromBase58(c.ProgramID); err != nil {
		return fmt.Errorf("invalid program id %q: %w", c.ProgramID, err)
	}
	return nil
}

func (c *ClientConfig) RequireProgramID() error {
	if c.ProgramID == "" {
		return ErrProgramIDRequired
	}
	return nil
}

// ProgramPublicKey returns the zero key when no program id is configured.
func (c *ClientConfig) ProgramPublicKey() (solana.PublicKey, error) {
	if c.ProgramID == "" {
		return solana.PublicKey{}, nil
	}
	return solana.PublicKeyFromBase58(c.ProgramID)
}
