package rpc

import (
	"net"
	"net/http"
	"time"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	soljsonrpc "github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/klauspost/compress/gzhttp"
)

const (
	defaultMaxIdleConnsPerHost = 9
	defaultTimeout             = 30 * time.Second
	defaultKeepAlive           = 180 * time.Second
)

type Options struct {
	// Headers are added to every request, e.g. provider API keys.
	Headers map[string]string

	// Timeout bounds a single HTTP round trip. Defaults to 30s.
	Timeout time.Duration

	// RequestsPerSecond enables a client-side limiter when > 0.
	RequestsPerSecond float64
	Burst             int
}

// New creates a Solana JSON RPC client for rpcEndpoint. Requests are never retried.
func New(rpcEndpoint string, opts *Options) *solrpc.Client {
	if opts == nil {
		opts = &Options{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var client solrpc.JSONRPCClient = soljsonrpc.NewClientWithOpts(rpcEndpoint, &soljsonrpc.RPCClientOpts{
		HTTPClient:    newHTTP(timeout),
		CustomHeaders: opts.Headers,
	})
	if opts.RequestsPerSecond > 0 {
		client = WithLimit(client, opts.RequestsPerSecond, opts.Burst)
	}
	return solrpc.NewWithCustomRPCClient(client)
}

// newHTTP returns a new Client from the provided config.
// Client is safe for concurrent use by multiple goroutines.
func newHTTP(timeout time.Duration) *http.Client {
	tr := newHTTPTransport(timeout)

	return &http.Client{
		Timeout:   timeout,
		Transport: gzhttp.Transport(tr),
	}
}

func newHTTPTransport(timeout time.Duration) *http.Transport {
	return &http.Transport{
		IdleConnTimeout:     defaultKeepAlive,
		MaxConnsPerHost:     defaultMaxIdleConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		Proxy:               http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
	}
}
