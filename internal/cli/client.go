package cli

import (
	"fmt"
	"log/slog"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/ledgerclient/config"
	"github.com/malbeclabs/ledgerclient/pkg/ledger"
	"github.com/malbeclabs/ledgerclient/pkg/rpc"
)

func newLedgerClient(log *slog.Logger, cfg *config.ClientConfig) (*ledger.Client, error) {
	programID, err := cfg.ProgramPublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to parse program ID: %w", err)
	}
	encoder, err := ledger.EncoderForName(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	rpcClient := rpc.New(cfg.RPCURL, &rpc.Options{
		Headers:           cfg.Headers,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
	})

	client, err := ledger.New(ledger.Config{
		Logger:              log,
		RPC:                 rpcClient,
		ProgramID:           programID,
		Commitment:          solanarpc.CommitmentType(cfg.Commitment),
		RequestTimeout:      cfg.RequestTimeout,
		ConfirmationTimeout: cfg.ConfirmationTimeout,
		Encoder:             encoder,
	})
	if err != nil {
		_ = rpcClient.Close()
		return nil, fmt.Errorf("failed to create ledger client: %w", err)
	}
	return client, nil
}
