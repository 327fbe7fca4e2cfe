package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/malbeclabs/ledgerclient/internal/metrics"
	"github.com/malbeclabs/ledgerclient/internal/watcher"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	defaultWatchInterval = 1 * time.Minute
	defaultMetricsAddr   = ":8080"
)

func newWatchCmd(g *globalFlags, info BuildInfo) *cobra.Command {
	var (
		interval     time.Duration
		thresholdSOL float64
		metricsAddr  string
	)

	cmd := &cobra.Command{
		Use:   "watch <[label=]address>...",
		Short: "Poll account balances and expose them as prometheus metrics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(g.verbose)

			accounts, err := parseWatchTargets(args)
			if err != nil {
				return err
			}
			cfg, err := resolveConfig(cmd, g, os.Getenv)
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

			metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.Date).Set(1)
			listener, err := net.Listen("tcp", metricsAddr)
			if err != nil {
				return fmt.Errorf("failed to start prometheus metrics server listener: %w", err)
			}
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
			go func() {
				log.Info("Prometheus metrics server listening", "address", listener.Addr().String())
				if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Failed to serve prometheus metrics", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			w, err := watcher.New(watcher.Config{
				Logger:       log,
				Interval:     interval,
				Client:       client,
				Accounts:     accounts,
				ThresholdSOL: thresholdSOL,
			})
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			log.Info("Starting balance watcher", "rpcURL", cfg.RPCURL, "accounts", len(accounts), "interval", interval)
			return w.Run(ctx)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultWatchInterval, "how often to poll balances")
	cmd.Flags().Float64Var(&thresholdSOL, "threshold-sol", 0, "warn when a balance drops below this many SOL")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaultMetricsAddr, "address to listen on for prometheus metrics")
	return cmd
}

// parseWatchTargets turns "label=address" or bare "address" arguments into a label map.
func parseWatchTargets(args []string) (map[string]string, error) {
	accounts := make(map[string]string, len(args))
	for _, arg := range args {
		label, address, found := strings.Cut(arg, "=")
		if !found {
			label, address = arg, arg
		}
		if label == "" || address == "" {
			return nil, fmt.Errorf("invalid watch target %q", arg)
		}
		if _, ok := accounts[label]; ok {
			return nil, fmt.Errorf("duplicate watch label %q", label)
		}
		accounts[label] = address
	}
	return accounts, nil
}
