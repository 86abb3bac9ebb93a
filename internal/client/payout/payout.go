package payout

import (
	"context"
	"math/big"
	"time"

	httpClient "github.com/autobridge/autobridge-api/internal/client/http"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sender is the synchronous "transfer value to address" capability used
// by withdrawals and by the excess-fee refund after a bridge execution.
type Sender interface {
	Send(ctx context.Context, toAddress, token string, amount *big.Int) (string, error)
}

const defaultPayoutTimeout = 20 * time.Second

// HTTPSender submits payouts to a treasury signing service.
type HTTPSender struct {
	httpClient *httpClient.HTTPClient
}

var _ Sender = (*HTTPSender)(nil)

// NewHTTPSender creates a payout client for the treasury at baseURL.
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithTimeout(defaultPayoutTimeout),
		),
	}
}

type payoutRequest struct {
	ToAddress string `json:"to_address"`
	Token     string `json:"token"`
	Amount    string `json:"amount"`
}

type payoutResponse struct {
	TransactionHash string `json:"transaction_hash"`
}

// Send transfers amount to toAddress and returns the transaction hash.
func (s *HTTPSender) Send(ctx context.Context, toAddress, token string, amount *big.Int) (string, error) {
	resp, err := s.httpClient.Post(ctx, "/v1/payouts", payoutRequest{
		ToAddress: toAddress,
		Token:     token,
		Amount:    amount.String(),
	})
	if err != nil {
		return "", errors.Wrap(err, "payout failed")
	}

	var payload payoutResponse
	if err := httpClient.DecodeJSON(resp, &payload); err != nil {
		return "", errors.Wrap(err, "payout failed")
	}
	if payload.TransactionHash == "" {
		return "", errors.New("payout service returned empty transaction hash")
	}

	logger.Info("Payout submitted",
		zap.String("to_address", toAddress),
		zap.String("token", token),
		zap.String("amount", amount.String()),
		zap.String("tx_hash", payload.TransactionHash))

	return payload.TransactionHash, nil
}
