package rpc_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/ledgerclient/pkg/ledger"
	"github.com/malbeclabs/ledgerclient/pkg/rpc"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// newJSONRPCServer serves result for every call and records the methods it saw.
func newJSONRPCServer(t *testing.T, handle func(req rpcRequest, r *http.Request) any) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		_ = r.Body.Close()

		var req rpcRequest
		require.NoError(t, json.Unmarshal(body, &req))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req, r),
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestRPC_New_GetAccountInfoThroughLedgerClient(t *testing.T) {
	t.Parallel()

	programID := solana.NewWallet().PublicKey()
	account := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	srv, hits := newJSONRPCServer(t, func(req rpcRequest, _ *http.Request) any {
		require.Equal(t, "getAccountInfo", req.Method)
		require.Equal(t, account.String(), req.Params[0])
		opts, ok := req.Params[1].(map[string]any)
		require.True(t, ok)
		require.Equal(t, "confirmed", opts["commitment"])
		require.Equal(t, "base64", opts["encoding"])
		return map[string]any{
			"context": map[string]any{"slot": 42},
			"value": map[string]any{
				"data":       []string{"AQIDBA==", "base64"},
				"executable": false,
				"lamports":   1_000_000,
				"owner":      owner.String(),
				"rentEpoch":  361,
				"space":      4,
			},
		}
	})

	client, err := ledger.New(ledger.Config{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		RPC:       rpc.New(srv.URL, nil),
		ProgramID: programID,
	})
	require.NoError(t, err)
	defer client.Close()

	res, err := client.GetAccountInfo(t.Context(), account.String())
	require.NoError(t, err)
	require.EqualValues(t, 1, hits.Load())
	require.Equal(t, uint64(42), res.Context.Slot)
	require.Equal(t, uint64(1_000_000), res.Value.Lamports)
	require.Equal(t, owner, res.Value.Owner)
	require.Equal(t, []byte{1, 2, 3, 4}, res.Value.Data.GetBinary())
}

func TestRPC_New_AccountNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newJSONRPCServer(t, func(_ rpcRequest, _ *http.Request) any {
		return map[string]any{
			"context": map[string]any{"slot": 7},
			"value":   nil,
		}
	})

	client, err := ledger.New(ledger.Config{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		RPC:       rpc.New(srv.URL, nil),
		ProgramID: solana.NewWallet().PublicKey(),
	})
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetAccountInfo(t.Context(), solana.NewWallet().PublicKey().String())
	require.ErrorIs(t, err, ledger.ErrAccountNotFound)
}

func TestRPC_New_CustomHeaders(t *testing.T) {
	t.Parallel()

	srv, _ := newJSONRPCServer(t, func(_ rpcRequest, r *http.Request) any {
		require.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		return map[string]any{"context": map[string]any{"slot": 1}, "value": 99}
	})

	client := rpc.New(srv.URL, &rpc.Options{
		Headers: map[string]string{"X-Api-Key": "secret"},
		Timeout: 5 * time.Second,
	})
	defer client.Close()

	res, err := client.GetBalance(t.Context(), solana.NewWallet().PublicKey(), "confirmed")
	require.NoError(t, err)
	require.Equal(t, uint64(99), res.Value)
}

func TestRPC_New_WithLimiter(t *testing.T) {
	t.Parallel()

	srv, hits := newJSONRPCServer(t, func(_ rpcRequest, _ *http.Request) any {
		return map[string]any{"context": map[string]any{"slot": 1}, "value": 1}
	})

	client := rpc.New(srv.URL, &rpc.Options{RequestsPerSecond: 1, Burst: 1})
	defer client.Close()

	_, err := client.GetBalance(t.Context(), solana.NewWallet().PublicKey(), "confirmed")
	require.NoError(t, err)

	// The single token is spent, so the next call cannot be admitted before the deadline.
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()
	_, err = client.GetBalance(ctx, solana.NewWallet().PublicKey(), "confirmed")
	require.Error(t, err)
	require.EqualValues(t, 1, hits.Load())
}
