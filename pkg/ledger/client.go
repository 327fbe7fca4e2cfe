package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/ledgerclient/internal/metrics"
)

// Client issues account reads, lamport transfers and program instructions against a ledger
// RPC node. It is safe for concurrent use. Close waits for in-flight operations.
type Client struct {
	log            *slog.Logger
	rpc            RPCClient
	executor       *executor
	encoder        PayloadEncoder
	programID      solana.PublicKey
	commitment     solanarpc.CommitmentType
	requestTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Client{
		log:            cfg.Logger,
		rpc:            cfg.RPC,
		executor:       newExecutor(cfg),
		encoder:        cfg.Encoder,
		programID:      cfg.ProgramID,
		commitment:     cfg.Commitment,
		requestTimeout: cfg.RequestTimeout,
	}, nil
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

// GetAccountInfo returns the node's account state for address unchanged.
func (c *Client) GetAccountInfo(ctx context.Context, address string) (*solanarpc.GetAccountInfoResult, error) {
	var res *solanarpc.GetAccountInfoResult
	err := c.do(ctx, metrics.OperationGetAccountInfo, func(ctx context.Context) error {
		pk, err := parseAddress(address)
		if err != nil {
			return err
		}
		res, err = c.rpc.GetAccountInfoWithOpts(ctx, pk, &solanarpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: c.commitment,
		})
		if err != nil {
			if errors.Is(err, solanarpc.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, pk)
			}
			return &NodeError{Op: metrics.OperationGetAccountInfo, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// GetBalance returns the lamport balance of address.
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	var balance uint64
	err := c.do(ctx, metrics.OperationGetBalance, func(ctx context.Context) error {
		pk, err := parseAddress(address)
		if err != nil {
			return err
		}
		res, err := c.rpc.GetBalance(ctx, pk, c.commitment)
		if err != nil {
			if errors.Is(err, solanarpc.ErrNotFound) {
				return fmt.Errorf("%w: %s", ErrAccountNotFound, pk)
			}
			return &NodeError{Op: metrics.OperationGetBalance, Err: err}
		}
		if res == nil {
			return &NodeError{Op: metrics.OperationGetBalance, Err: errors.New("empty balance response")}
		}
		balance = res.Value
		return nil
	})
	return balance, err
}

// TransferFunds moves lamports from sender to recipient in a single system transfer and waits
// for the client's commitment. Zero-lamport transfers are submitted as-is. When the transaction
// was submitted but the commitment wait fails, the signature is returned with the error so the
// caller can look the transaction up instead of resubmitting.
func (c *Client) TransferFunds(ctx context.Context, sender solana.PrivateKey, recipient string, lamports uint64) (solana.Signature, error) {
	var sig solana.Signature
	err := c.do(ctx, metrics.OperationTransferFunds, func(ctx context.Context) error {
		to, err := parseAddress(recipient)
		if err != nil {
			return err
		}
		if !sender.IsValid() {
			return &SigningError{Err: errors.New("invalid sender private key")}
		}

		ix := system.NewTransferInstruction(lamports, sender.PublicKey(), to).Build()

		sig, err = c.executor.execute(ctx, metrics.OperationTransferFunds, sender, ix)
		if err != nil {
			return err
		}
		c.log.Info("Transferred lamports", "from", sender.PublicKey(), "to", to, "lamports", lamports, "sig", sig)
		return nil
	})
	return sig, err
}

// SendProgramInstruction encodes payload as instruction data for the client's program and
// submits it signed by account. As with TransferFunds, a non-zero signature accompanies the error
// when the transaction was submitted but not seen at the client's commitment.
func (c *Client) SendProgramInstruction(ctx context.Context, account solana.PrivateKey, payload any) (solana.Signature, error) {
	var sig solana.Signature
	err := c.do(ctx, metrics.OperationSendProgramInstruction, func(ctx context.Context) error {
		if c.programID.IsZero() {
			return ErrProgramIDRequired
		}
		if !account.IsValid() {
			return &SigningError{Err: errors.New("invalid account private key")}
		}
		data, err := c.encoder.Encode(payload)
		if err != nil {
			return &SerializationError{Err: err}
		}

		ix := solana.NewInstruction(
			c.programID,
			solana.AccountMetaSlice{
				solana.NewAccountMeta(account.PublicKey(), true, true),
			},
			data,
		)

		sig, err = c.executor.execute(ctx, metrics.OperationSendProgramInstruction, account, ix)
		if err != nil {
			return err
		}
		c.log.Info("Sent program instruction", "program", c.programID, "account", account.PublicKey(), "bytes", len(data), "sig", sig)
		return nil
	})
	return sig, err
}

// Close releases the RPC connection once in-flight operations return. Calling it more than
// once is a no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rpc.Close(); err != nil {
		return fmt.Errorf("failed to close rpc client: %w", err)
	}
	return nil
}

// do runs fn under the read lock, applying the request timeout and recording metrics.
func (c *Client) do(ctx context.Context, op string, fn func(context.Context) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics.Requests.WithLabelValues(op).Inc()
	if c.closed {
		metrics.Errors.WithLabelValues(op, metrics.ErrorTypeClientClosed).Inc()
		return ErrClientClosed
	}

	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.RequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Errors.WithLabelValues(op, errorType(err)).Inc()
		c.log.Debug("Operation failed", "op", op, "error", err)
	}
	return err
}

func parseAddress(address string) (solana.PublicKey, error) {
	pk, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, &InvalidAddressError{Address: address, Err: err}
	}
	return pk, nil
}

func errorType(err error) string {
	var (
		addrErr *InvalidAddressError
		nodeErr *NodeError
		signErr *SigningError
		serErr  *SerializationError
	)
	switch {
	case errors.Is(err, ErrClientClosed):
		return metrics.ErrorTypeClientClosed
	case errors.Is(err, ErrAccountNotFound):
		return metrics.ErrorTypeNotFound
	case errors.Is(err, ErrProgramIDRequired):
		return metrics.ErrorTypeConfig
	case errors.As(err, &addrErr):
		return metrics.ErrorTypeInvalidAddress
	case errors.As(err, &nodeErr):
		return metrics.ErrorTypeNode
	case errors.As(err, &signErr):
		return metrics.ErrorTypeSigning
	case errors.As(err, &serErr):
		return metrics.ErrorTypeSerialization
	default:
		return metrics.ErrorTypeUnknown
	}
}
