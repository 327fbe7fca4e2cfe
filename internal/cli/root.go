package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/malbeclabs/ledgerclient/config"
	"github.com/spf13/cobra"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	verbose             bool
	configPath          string
	env                 string
	rpcURL              string
	programID           string
	keypair             string
	commitment          string
	requestTimeout      time.Duration
	confirmationTimeout time.Duration
	requestsPerSecond   float64
}

func Run(info BuildInfo) ExitCode {
	// Load .env file if it exists
	_ = godotenv.Load()

	rootCmd := NewRootCmd(info)
	if err := rootCmd.Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	cmd, _ := newRootCmd(info)
	return cmd
}

func newRootCmd(info BuildInfo) (*cobra.Command, *globalFlags) {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:          "ledger-client",
		Short:        "Query accounts and submit transactions to a ledger RPC node.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "set debug logging level")
	flags.StringVarP(&g.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVarP(&g.env, "env", "e", "", "network environment (mainnet-beta, testnet, devnet, localnet)")
	flags.StringVar(&g.rpcURL, "rpc-url", "", "ledger RPC URL, overrides --env")
	flags.StringVar(&g.programID, "program-id", "", "base58 address of the target program")
	flags.StringVarP(&g.keypair, "keypair", "k", "", "signer keypair: solana-keygen file path or base58 secret key")
	flags.StringVar(&g.commitment, "commitment", "", "commitment level to wait for (processed, confirmed, finalized)")
	flags.DurationVar(&g.requestTimeout, "timeout", 0, "per-operation timeout (0 = none)")
	flags.DurationVar(&g.confirmationTimeout, "confirmation-timeout", 0, "how long to wait for a submitted transaction to reach the commitment level")
	flags.Float64Var(&g.requestsPerSecond, "rps", 0, "client-side RPC rate limit in requests per second (0 = unlimited)")

	rootCmd.AddCommand(
		newAccountCmd(g),
		newTransferCmd(g),
		newInvokeCmd(g),
		newWatchCmd(g, info),
		newVersionCmd(info),
	)
	return rootCmd, g
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ledger-client %s (commit: %s, built: %s)\n", info.Version, info.Commit, info.Date)
		},
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// resolveConfig layers the config file, the process environment and explicitly set flags, in
// that order. The environment defaults to mainnet-beta when nothing names an endpoint.
func resolveConfig(cmd *cobra.Command, g *globalFlags, getenv func(string) string) (*config.ClientConfig, error) {
	cfg := &config.ClientConfig{}
	if g.configPath != "" {
		fileCfg, err := config.LoadFile(g.configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv(getenv)

	flags := cmd.Flags()
	if flags.Changed("env") {
		cfg.Env = g.env
		if !flags.Changed("rpc-url") {
			cfg.RPCURL = ""
		}
	}
	if flags.Changed("rpc-url") {
		cfg.RPCURL = g.rpcURL
	}
	if flags.Changed("program-id") {
		cfg.ProgramID = g.programID
	}
	if flags.Changed("keypair") {
		cfg.Keypair = g.keypair
	}
	if flags.Changed("commitment") {
		cfg.Commitment = g.commitment
	}
	if flags.Changed("timeout") {
		cfg.RequestTimeout = g.requestTimeout
	}
	if flags.Changed("confirmation-timeout") {
		cfg.ConfirmationTimeout = g.confirmationTimeout
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond = g.requestsPerSecond
	}

	if cfg.Env == "" && cfg.RPCURL == "" {
		cfg.Env = config.EnvMainnetBeta
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
