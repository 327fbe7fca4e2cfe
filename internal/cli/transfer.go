package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newTransferCmd(g *globalFlags) *cobra.Command {
	var (
		to       string
		lamports uint64
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer lamports from the signer to a recipient",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(g.verbose)

			cfg, err := resolveConfig(cmd, g, os.Getenv)
			if err != nil {
				return err
			}
			sender, err := loadKeypair(cfg.Keypair)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, err := newLedgerClient(log, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			sig, err := client.TransferFunds(ctx, sender, to, lamports)
			if err != nil {
				log.Error("Failed to transfer funds", "to", to, "lamports", lamports, "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "recipient address")
	cmd.Flags().Uint64Var(&lamports, "lamports", 0, "amount to transfer in lamports")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("lamports")
	return cmd
}
