package oracle

import (
	"context"
	"fmt"
	"time"

	httpClient "github.com/autobridge/autobridge-api/internal/client/http"
	"github.com/autobridge/autobridge-api/internal/logger"
	"go.uber.org/zap"
)

const defaultPriceClientTimeout = 10 * time.Second

// PriceClient reads a spot price from an HTTP price endpoint. It is the
// polling alternative to the streaming PriceFeed for venues without a
// websocket API.
type PriceClient struct {
	httpClient *httpClient.HTTPClient
	symbol     string
}

var _ Oracle = (*PriceClient)(nil)

type priceResponse struct {
	Symbol     string  `json:"symbol"`
	Price      float64 `json:"price"`
	ObservedAt string  `json:"observed_at"`
}

// NewPriceClient creates a price oracle for symbol backed by the
// endpoint at baseURL.
func NewPriceClient(baseURL, symbol string) *PriceClient {
	return &PriceClient{
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultPriceClientTimeout),
		),
		symbol: symbol,
	}
}

// Read fetches the latest spot price for the configured symbol.
func (c *PriceClient) Read(ctx context.Context) (Reading, error) {
	resp, err := c.httpClient.Get(ctx, "/v1/price/latest",
		httpClient.WithQueryParam("symbol", c.symbol))
	if err != nil {
		logger.Error("Price request failed",
			zap.String("symbol", c.symbol),
			zap.Error(err))
		return Reading{}, fmt.Errorf("failed to read price: %w", err)
	}

	var payload priceResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return Reading{}, err
	}

	observedAt, err := time.Parse(time.RFC3339, payload.ObservedAt)
	if err != nil {
		observedAt = time.Now()
	}

	return Reading{Value: payload.Price, ObservedAt: observedAt}, nil
}
