package watcher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/jonboulle/clockwork"
	"github.com/malbeclabs/ledgerclient/internal/metrics"
)

var (
	ErrLoggerRequired   = errors.New("logger is required")
	ErrIntervalRequired = errors.New("interval must be greater than 0")
	ErrClientRequired   = errors.New("balance client is required")
	ErrAccountsRequired = errors.New("at least one account is required")
)

type BalanceClient interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

type Config struct {
	Logger   *slog.Logger
	Interval time.Duration
	Client   BalanceClient
	// Accounts maps a metric label to a base58 address.
	Accounts map[string]string
	// ThresholdSOL logs a warning when a balance drops below it. Zero disables the check.
	ThresholdSOL float64
	Clock        clockwork.Clock
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.Interval <= 0 {
		return ErrIntervalRequired
	}
	if c.Client == nil {
		return ErrClientRequired
	}
	if len(c.Accounts) == 0 {
		return ErrAccountsRequired
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	return nil
}

// BalanceWatcher polls account balances and exports them as gauges.
type BalanceWatcher struct {
	log *slog.Logger
	cfg Config
}

func New(cfg Config) (*BalanceWatcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &BalanceWatcher{
		log: cfg.Logger.With("watcher", "balance"),
		cfg: cfg,
	}, nil
}

func (w *BalanceWatcher) Run(ctx context.Context) error {
	ticker := w.cfg.Clock.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	w.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping")
			return nil
		case <-ticker.Chan():
			w.Tick(ctx)
		}
	}
}

// Tick refreshes every account once. Failures are counted and logged per account.
func (w *BalanceWatcher) Tick(ctx context.Context) {
	for label, address := range w.cfg.Accounts {
		lamports, err := w.cfg.Client.GetBalance(ctx, address)
		if err != nil {
			w.log.Info("failed to get balance", "account", label, "address", address, "error", err)
			continue
		}

		sol := float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
		metrics.AccountBalanceLamports.WithLabelValues(label).Set(float64(lamports))
		metrics.AccountBalanceSOL.WithLabelValues(label).Set(sol)

		w.log.Debug("balance", "account", label, "address", address, "lamports", lamports, "sol", sol)

		if w.cfg.ThresholdSOL > 0 && sol < w.cfg.ThresholdSOL {
			w.log.Warn("balance below threshold", "account", label, "address", address, "sol", sol, "threshold", w.cfg.ThresholdSOL)
		}
	}
}
