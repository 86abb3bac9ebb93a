package oracle

import (
	"context"
	"fmt"
	"time"

	httpClient "github.com/autobridge/autobridge-api/internal/client/http"
	"github.com/autobridge/autobridge-api/internal/logger"
	"go.uber.org/zap"
)

const defaultGasStationTimeout = 10 * time.Second

// GasStationClient reads the current gas price from an HTTP gas station
// style endpoint.
type GasStationClient struct {
	httpClient *httpClient.HTTPClient
	apiKey     string
}

var _ Oracle = (*GasStationClient)(nil)

// gasStationResponse matches the expected JSON structure of the gas
// station endpoint.
type gasStationResponse struct {
	GasPriceGwei float64 `json:"gas_price_gwei"`
	ObservedAt   string  `json:"observed_at"`
}

// NewGasStationClient creates a gas price oracle backed by the endpoint
// at baseURL.
func NewGasStationClient(baseURL, apiKey string) *GasStationClient {
	return &GasStationClient{
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultGasStationTimeout),
		),
		apiKey: apiKey,
	}
}

// Read fetches the latest gas price reading.
func (c *GasStationClient) Read(ctx context.Context) (Reading, error) {
	options := []httpClient.RequestOption{}
	if c.apiKey != "" {
		options = append(options, httpClient.WithHeader("X-API-Key", c.apiKey))
	}

	resp, err := c.httpClient.Get(ctx, "/v1/gas/latest", options...)
	if err != nil {
		logger.Error("Gas station request failed", zap.Error(err))
		return Reading{}, fmt.Errorf("failed to read gas price: %w", err)
	}

	var payload gasStationResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return Reading{}, err
	}

	observedAt, err := time.Parse(time.RFC3339, payload.ObservedAt)
	if err != nil {
		// Endpoints without a timestamp field are treated as live.
		observedAt = time.Now()
	}

	return Reading{Value: payload.GasPriceGwei, ObservedAt: observedAt}, nil
}
