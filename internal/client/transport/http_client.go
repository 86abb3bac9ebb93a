package transport

import (
	"context"
	"encoding/base64"
	"math/big"
	"time"

	httpClient "github.com/autobridge/autobridge-api/internal/client/http"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/pkg/errors"
)

const defaultTransportTimeout = 20 * time.Second

// HTTPTransport talks to a bridge relayer service over HTTP.
type HTTPTransport struct {
	httpClient *httpClient.HTTPClient
}

var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a transport client for the relayer at baseURL.
func NewHTTPTransport(baseURL string) *HTTPTransport {
	return &HTTPTransport{
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultTransportTimeout),
		),
	}
}

type quoteRequest struct {
	Destination uint32 `json:"destination"`
	Message     string `json:"message"`
}

type quoteResponse struct {
	NativeFee    string `json:"native_fee"`
	SecondaryFee string `json:"secondary_fee"`
}

type sendRequest struct {
	Destination uint32 `json:"destination"`
	Message     string `json:"message"`
	Payment     string `json:"payment"`
}

type sendResponse struct {
	Receipt string `json:"receipt"`
}

// Quote asks the relayer what fee it requires for the message.
func (t *HTTPTransport) Quote(ctx context.Context, destination uint32, message []byte) (Quote, error) {
	resp, err := t.httpClient.Post(ctx, "/v1/quote", quoteRequest{
		Destination: destination,
		Message:     base64.StdEncoding.EncodeToString(message),
	})
	if err != nil {
		return Quote{}, errors.Wrap(err, "bridge transport quote failed")
	}

	var payload quoteResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return Quote{}, errors.Wrap(err, "bridge transport quote failed")
	}

	nativeFee := helpers.ParseWeiAmount(payload.NativeFee)
	if nativeFee == nil {
		return Quote{}, errors.Errorf("invalid native fee in quote: %q", payload.NativeFee)
	}
	secondaryFee := helpers.ParseWeiAmount(payload.SecondaryFee)
	if secondaryFee == nil {
		secondaryFee = new(big.Int)
	}

	return Quote{NativeFee: nativeFee, SecondaryFee: secondaryFee}, nil
}

// Send submits the message with the given payment and returns the
// relayer's receipt.
func (t *HTTPTransport) Send(ctx context.Context, destination uint32, message []byte, payment *big.Int) (string, error) {
	resp, err := t.httpClient.Post(ctx, "/v1/send", sendRequest{
		Destination: destination,
		Message:     base64.StdEncoding.EncodeToString(message),
		Payment:     payment.String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "bridge transport send failed")
	}

	var payload sendResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return "", errors.Wrap(err, "bridge transport send failed")
	}
	if payload.Receipt == "" {
		return "", errors.New("bridge transport returned empty receipt")
	}

	return payload.Receipt, nil
}
