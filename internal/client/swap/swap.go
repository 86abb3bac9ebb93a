package swap

import (
	"context"
	"math/big"
	"time"

	httpClient "github.com/autobridge/autobridge-api/internal/client/http"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/pkg/errors"
)

// Executor converts an input amount of one asset into an output amount
// of another at the venue's quoted rate.
type Executor interface {
	Swap(ctx context.Context, tokenIn, tokenOut string, amountIn *big.Int) (*big.Int, error)
}

const defaultSwapTimeout = 20 * time.Second

// HTTPExecutor executes swaps against a DEX aggregator service.
type HTTPExecutor struct {
	httpClient *httpClient.HTTPClient
}

var _ Executor = (*HTTPExecutor)(nil)

// NewHTTPExecutor creates a swap client for the venue at baseURL.
func NewHTTPExecutor(baseURL string) *HTTPExecutor {
	return &HTTPExecutor{
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultSwapTimeout),
		),
	}
}

type swapRequest struct {
	TokenIn  string `json:"token_in"`
	TokenOut string `json:"token_out"`
	AmountIn string `json:"amount_in"`
}

type swapResponse struct {
	AmountOut string `json:"amount_out"`
}

// Swap executes the conversion and returns the realized output amount.
func (e *HTTPExecutor) Swap(ctx context.Context, tokenIn, tokenOut string, amountIn *big.Int) (*big.Int, error) {
	resp, err := e.httpClient.Post(ctx, "/v1/swap", swapRequest{
		TokenIn:  tokenIn,
		TokenOut: tokenOut,
		AmountIn: amountIn.String(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "swap execution failed")
	}

	var payload swapResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return nil, errors.Wrap(err, "swap execution failed")
	}

	amountOut := helpers.ParseWeiAmount(payload.AmountOut)
	if amountOut == nil {
		return nil, errors.Errorf("invalid amount out from swap venue: %q", payload.AmountOut)
	}
	return amountOut, nil
}
