package ledger_test

import (
	"bytes"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/lmittmann/tint"
	"github.com/malbeclabs/ledgerclient/pkg/ledger"
	"github.com/stretchr/testify/require"
)

var (
	log *slog.Logger
)

// TestMain sets up the test environment with a global logger.
func TestMain(m *testing.M) {
	flag.Parse()
	verbose := false
	if vFlag := flag.Lookup("test.v"); vFlag != nil && vFlag.Value.String() == "true" {
		verbose = true
	}
	if verbose {
		log = slog.New(tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		}))
	} else {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	os.Exit(m.Run())
}

type mockRPCClient struct {
	ledger.RPCClient

	GetAccountInfoWithOptsFunc  func(context.Context, solana.PublicKey, *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error)
	GetBalanceFunc              func(context.Context, solana.PublicKey, solanarpc.CommitmentType) (*solanarpc.GetBalanceResult, error)
	GetLatestBlockhashFunc      func(context.Context, solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error)
	SendTransactionWithOptsFunc func(context.Context, *solana.Transaction, solanarpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatusesFunc    func(context.Context, bool, ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error)
	CloseFunc                   func() error

	accountInfoCalls atomic.Int32
	sendCalls        atomic.Int32
	closeCalls       atomic.Int32
}

func (m *mockRPCClient) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *solanarpc.GetAccountInfoOpts) (*solanarpc.GetAccountInfoResult, error) {
	m.accountInfoCalls.Add(1)
	return m.GetAccountInfoWithOptsFunc(ctx, account, opts)
}

func (m *mockRPCClient) GetBalance(ctx context.Context, account solana.PublicKey, commitment solanarpc.CommitmentType) (*solanarpc.GetBalanceResult, error) {
	return m.GetBalanceFunc(ctx, account, commitment)
}

func (m *mockRPCClient) GetLatestBlockhash(ctx context.Context, commitment solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
	return m.GetLatestBlockhashFunc(ctx, commitment)
}

func (m *mockRPCClient) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error) {
	m.sendCalls.Add(1)
	return m.SendTransactionWithOptsFunc(ctx, tx, opts)
}

func (m *mockRPCClient) GetSignatureStatuses(ctx context.Context, search bool, sigs ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
	return m.GetSignatureStatusesFunc(ctx, search, sigs...)
}

func (m *mockRPCClient) Close() error {
	m.closeCalls.Add(1)
	if m.CloseFunc == nil {
		return nil
	}
	return m.CloseFunc()
}

var testBlockhash = solana.MustHashFromBase58("5NzX7jrPWeTkGsDnVnszdEa7T3Yyr3nSgyc78z3CwjWQ")

func testSignature(b byte) solana.Signature {
	var sig solana.Signature
	copy(sig[:], bytes.Repeat([]byte{b}, len(sig)))
	return sig
}

// newSubmittingRPC returns a mock that hands out a blockhash, accepts any transaction with sig
// and reports it as confirmed.
func newSubmittingRPC(sig solana.Signature) *mockRPCClient {
	return &mockRPCClient{
		GetLatestBlockhashFunc: func(_ context.Context, _ solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
			return &solanarpc.GetLatestBlockhashResult{
				Value: &solanarpc.LatestBlockhashResult{Blockhash: testBlockhash},
			}, nil
		},
		SendTransactionWithOptsFunc: func(_ context.Context, _ *solana.Transaction, _ solanarpc.TransactionOpts) (solana.Signature, error) {
			return sig, nil
		},
		GetSignatureStatusesFunc: func(_ context.Context, _ bool, _ ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
			return &solanarpc.GetSignatureStatusesResult{
				Value: []*solanarpc.SignatureStatusesResult{
					{ConfirmationStatus: solanarpc.ConfirmationStatusConfirmed},
				},
			}, nil
		},
	}
}

func newTestClient(t *testing.T, rpc ledger.RPCClient, programID solana.PublicKey, mutate ...func(*ledger.Config)) *ledger.Client {
	t.Helper()
	cfg := ledger.Config{
		Logger:                   log,
		RPC:                      rpc,
		ProgramID:                programID,
		ConfirmationTimeout:      time.Second,
		ConfirmationPollInterval: time.Millisecond,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	client, err := ledger.New(cfg)
	require.NoError(t, err)
	return client
}
