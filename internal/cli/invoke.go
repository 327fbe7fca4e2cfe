package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/malbeclabs/ledgerclient/pkg/ledger"
	"github.com/spf13/cobra"
)

func newInvokeCmd(g *globalFlags) *cobra.Command {
	var (
		payload     string
		payloadFile string
		encoding    string
	)

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Send a payload instruction to the configured program",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(g.verbose)

			cfg, err := resolveConfig(cmd, g, os.Getenv)
			if err != nil {
				return err
			}
			if err := cfg.RequireProgramID(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cmd.Flags().Changed("encoding") {
				cfg.Encoding = encoding
			}
			data, err := readPayload(payload, payloadFile)
			if err != nil {
				return err
			}
			body, err := payloadForEncoding(cfg.Encoding, data)
			if err != nil {
				return err
			}
			signer, err := loadKeypair(cfg.Keypair)
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

			sig, err := client.SendProgramInstruction(ctx, signer, body)
			if err != nil {
				log.Error("Failed to send program instruction", "program", cfg.ProgramID, "error", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sig.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&payload, "payload", "p", "", "instruction payload")
	cmd.Flags().StringVar(&payloadFile, "payload-file", "", "read the instruction payload from a file")
	cmd.Flags().StringVar(&encoding, "encoding", ledger.EncodingJSON, "payload encoding (json, raw)")
	return cmd
}

func readPayload(payload, payloadFile string) ([]byte, error) {
	switch {
	case payload != "" && payloadFile != "":
		return nil, errors.New("specify only one of --payload or --payload-file")
	case payloadFile != "":
		data, err := os.ReadFile(payloadFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return data, nil
	case payload != "":
		return []byte(payload), nil
	default:
		return nil, errors.New("a payload is required (--payload or --payload-file)")
	}
}

// payloadForEncoding converts command-line input into a value the named encoder accepts.
// Borsh and bincode need typed Go values, so they are only available to library callers.
func payloadForEncoding(encoding string, data []byte) (any, error) {
	switch encoding {
	case "", ledger.EncodingJSON:
		if !json.Valid(data) {
			return nil, errors.New("payload is not valid JSON")
		}
		return json.RawMessage(data), nil
	case ledger.EncodingRaw:
		return data, nil
	default:
		return nil, fmt.Errorf("encoding %q is not supported from the command line", encoding)
	}
}
