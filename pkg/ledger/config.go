package ledger

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/jonboulle/clockwork"
)

var (
	ErrLoggerRequired    = errors.New("logger is required")
	ErrRPCRequired       = errors.New("rpc client is required")
	ErrProgramIDRequired = errors.New("program id is required")
	ErrInvalidCommitment = errors.New("commitment must be one of processed, confirmed, finalized")
)

const (
	defaultConfirmationTimeout      = 60 * time.Second
	defaultConfirmationPollInterval = 500 * time.Millisecond
)

type Config struct {
	Logger *slog.Logger
	RPC    RPCClient

	// ProgramID is the target of SendProgramInstruction. Clients that only read or transfer may
	// leave it zero.
	ProgramID solana.PublicKey

	// Commitment used for reads, preflight and the post-submit wait. Defaults to confirmed.
	Commitment solanarpc.CommitmentType

	// RequestTimeout bounds each operation end to end. Zero means the caller's context is the
	// only bound.
	RequestTimeout time.Duration

	ConfirmationTimeout      time.Duration
	ConfirmationPollInterval time.Duration

	// Encoder serializes SendProgramInstruction payloads. Defaults to JSON.
	Encoder PayloadEncoder

	Clock clockwork.Clock
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.RPC == nil {
		return ErrRPCRequired
	}
	switch c.Commitment {
	case "":
		c.Commitment = solanarpc.CommitmentConfirmed
	case solanarpc.CommitmentProcessed, solanarpc.CommitmentConfirmed, solanarpc.CommitmentFinalized:
	default:
		return ErrInvalidCommitment
	}
	if c.RequestTimeout < 0 {
		c.RequestTimeout = 0
	}
	if c.ConfirmationTimeout <= 0 {
		c.ConfirmationTimeout = defaultConfirmationTimeout
	}
	if c.ConfirmationPollInterval <= 0 {
		c.ConfirmationPollInterval = defaultConfirmationPollInterval
	}
	if c.Encoder == nil {
		c.Encoder = JSONEncoder{}
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}
