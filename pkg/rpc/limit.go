package rpc

import (
	"context"
	"io"
	"net/http"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"golang.org/x/time/rate"
)

// WithLimit wraps inner so that calls are admitted at most rps times per second, with the given
// burst. Waiting honours the call's context.
func WithLimit(inner solanarpc.JSONRPCClient, rps float64, burst int) solanarpc.JSONRPCClient {
	if burst <= 0 {
		burst = 1
	}
	return &limitedJSONRPCClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type limitedJSONRPCClient struct {
	inner   solanarpc.JSONRPCClient
	limiter *rate.Limiter
}

func (c *limitedJSONRPCClient) CallForInto(ctx context.Context, out any, method string, params []any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.inner.CallForInto(ctx, out, method, params)
}

func (c *limitedJSONRPCClient) CallWithCallback(ctx context.Context, method string, params []any, callback func(*http.Request, *http.Response) error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	return c.inner.CallWithCallback(ctx, method, params, callback)
}

func (c *limitedJSONRPCClient) CallBatch(ctx context.Context, requests jsonrpc.RPCRequests) (jsonrpc.RPCResponses, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.inner.CallBatch(ctx, requests)
}

func (c *limitedJSONRPCClient) Close() error {
	if closer, ok := c.inner.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
