package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/logger"
)

// AlertService sends operator email alerts for failures that need a
// human: transport failures after debit, unrefunded fees, stuck
// monitor workers. Alerts are best-effort and never block the flow
// that raised them.
type AlertService struct {
	client    *resend.Client
	fromEmail string
	toEmail   string
	logger    *zap.Logger
}

// NewAlertService creates a new alert service. Pass an empty apiKey to
// disable sending; alerts are then logged only.
func NewAlertService(apiKey, fromEmail, toEmail string) *AlertService {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &AlertService{
		client:    client,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		logger:    logger.Log,
	}
}

// AlertParams contains the details of an operator alert.
type AlertParams struct {
	Subject     string
	UserAddress string
	Detail      string
	Err         error
}

// Notify sends an operator alert email. Failures to send are logged
// and swallowed.
func (s *AlertService) Notify(ctx context.Context, params AlertParams) {
	s.logger.Warn("Operator alert raised",
		zap.String("subject", params.Subject),
		zap.String("user_address", params.UserAddress),
		zap.String("detail", params.Detail),
		zap.Error(params.Err))

	if s.client == nil {
		return
	}

	body := fmt.Sprintf(
		"Time: %s\nUser: %s\nDetail: %s\nError: %v\n",
		time.Now().UTC().Format(time.RFC3339),
		params.UserAddress,
		params.Detail,
		params.Err,
	)

	request := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{s.toEmail},
		Subject: fmt.Sprintf("[autobridge] %s", params.Subject),
		Text:    body,
		Headers: map[string]string{
			"X-Entity-Ref-ID": uuid.New().String(),
		},
		Tags: []resend.Tag{
			{Name: "category", Value: "operator-alert"},
		},
	}

	sent, err := s.client.Emails.Send(request)
	if err != nil {
		s.logger.Error("Failed to send operator alert",
			zap.String("subject", params.Subject),
			zap.Error(err))
		return
	}

	s.logger.Info("Operator alert sent",
		zap.String("email_id", sent.Id),
		zap.String("subject", params.Subject))
}
