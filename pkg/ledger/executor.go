package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"
)

// maxTransactionSize is the largest serialized transaction a node accepts (IPv6 MTU minus headers).
const maxTransactionSize = 1232

var errConfirmationTimeout = errors.New("timed out waiting for confirmation")

type executor struct {
	log          *slog.Logger
	rpc          RPCClient
	clock        clockwork.Clock
	commitment   solanarpc.CommitmentType
	timeout      time.Duration
	pollInterval time.Duration
}

func newExecutor(cfg Config) *executor {
	return &executor{
		log:          cfg.Logger,
		rpc:          cfg.RPC,
		clock:        cfg.Clock,
		commitment:   cfg.Commitment,
		timeout:      cfg.ConfirmationTimeout,
		pollInterval: cfg.ConfirmationPollInterval,
	}
}

// execute builds a transaction from the instructions, signs it with signer as the fee payer,
// submits it exactly once and waits until the node reports the configured commitment.
func (e *executor) execute(ctx context.Context, op string, signer solana.PrivateKey, instructions ...solana.Instruction) (solana.Signature, error) {
	if !signer.IsValid() {
		return solana.Signature{}, &SigningError{Err: errors.New("invalid private key")}
	}
	payer := signer.PublicKey()

	blockhash, err := e.rpc.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		return solana.Signature{}, &NodeError{Op: op, Err: fmt.Errorf("failed to get latest blockhash: %w", err)}
	}
	if blockhash == nil || blockhash.Value == nil {
		return solana.Signature{}, &NodeError{Op: op, Err: errors.New("latest blockhash missing from response")}
	}

	tx, err := solana.NewTransaction(
		instructions,
		blockhash.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &signer
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, &SigningError{Err: err}
	}
	if len(tx.Signatures) == 0 {
		return solana.Signature{}, &SigningError{Err: errors.New("signed transaction has no signatures")}
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return solana.Signature{}, &SerializationError{Err: fmt.Errorf("failed to serialize transaction: %w", err)}
	}
	if len(raw) > maxTransactionSize {
		return solana.Signature{}, &SerializationError{Err: fmt.Errorf("transaction is %d bytes, limit is %d", len(raw), maxTransactionSize)}
	}

	sig, err := e.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		PreflightCommitment: e.commitment,
	})
	if err != nil {
		return solana.Signature{}, &NodeError{Op: op, Err: fmt.Errorf("failed to send transaction: %w", err)}
	}
	e.log.Debug("Transaction submitted", "op", op, "sig", sig, "payer", payer)

	if err := e.waitForCommitment(ctx, sig); err != nil {
		return sig, &NodeError{Op: op, Err: err}
	}
	return sig, nil
}

func (e *executor) waitForCommitment(ctx context.Context, sig solana.Signature) error {
	start := e.clock.Now()
	deadline := start.Add(e.timeout)
	for {
		resp, err := e.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			return fmt.Errorf("failed to get signature status: %w", err)
		}
		if resp != nil && len(resp.Value) > 0 && resp.Value[0] != nil {
			status := resp.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed: %v", sig, status.Err)
			}
			if reached(status.ConfirmationStatus, e.commitment) {
				e.log.Debug("Transaction reached commitment", "sig", sig, "status", status.ConfirmationStatus, "duration", e.clock.Since(start))
				return nil
			}
		}
		if !e.clock.Now().Before(deadline) {
			return fmt.Errorf("%w: sig=%s commitment=%s", errConfirmationTimeout, sig, e.commitment)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.clock.After(e.pollInterval):
		}
	}
}

func reached(status solanarpc.ConfirmationStatusType, want solanarpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(solanarpc.ConfirmationStatusProcessed):
			return 1
		case string(solanarpc.ConfirmationStatusConfirmed):
			return 2
		case string(solanarpc.ConfirmationStatusFinalized):
			return 3
		}
		return 0
	}
	got := rank(string(status))
	return got > 0 && got >= rank(string(want))
}
