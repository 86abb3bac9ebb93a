package services

import (
	"context"
	"fmt"
	"time"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/logger"
	"go.uber.org/zap"
)

// TriggerService decides whether a user's bridge action should fire.
//
// Trigger direction: the condition is met when the current reading is
// greater than or equal to the user's threshold — bridge when gas is
// expensive, preserving urgency. An unset threshold never triggers.
type TriggerService struct {
	ledger *LedgerService
	oracle oracle.Oracle
	// Readings older than maxAge fail with ErrStaleReading. Zero
	// disables the check.
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// TriggerResult is the outcome of one condition evaluation.
type TriggerResult struct {
	Reading       float64   `json:"reading"`
	ObservedAt    time.Time `json:"observed_at"`
	Threshold     float64   `json:"threshold"`
	ThresholdSet  bool      `json:"threshold_set"`
	ShouldTrigger bool      `json:"should_trigger"`
}

// NewTriggerService creates a new trigger evaluation service.
func NewTriggerService(ledger *LedgerService, gasOracle oracle.Oracle, maxAge time.Duration) *TriggerService {
	return &TriggerService{
		ledger: ledger,
		oracle: gasOracle,
		maxAge: maxAge,
		logger: logger.Log,
		now:    time.Now,
	}
}

// Check evaluates the trigger condition for the user from a fresh
// oracle reading. It mutates nothing and is safe for anyone to call.
func (s *TriggerService) Check(ctx context.Context, userAddress string) (TriggerResult, error) {
	reading, err := s.oracle.Read(ctx)
	if err != nil {
		s.logger.Warn("Oracle read failed",
			zap.String("user_address", userAddress),
			zap.Error(err))
		return TriggerResult{}, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}

	if s.maxAge > 0 && s.now().Sub(reading.ObservedAt) > s.maxAge {
		return TriggerResult{}, fmt.Errorf("%w: observed at %s", ErrStaleReading, reading.ObservedAt.Format(time.RFC3339))
	}

	threshold, thresholdSet, err := s.ledger.GetThreshold(ctx, userAddress)
	if err != nil {
		return TriggerResult{}, err
	}

	return TriggerResult{
		Reading:       reading.Value,
		ObservedAt:    reading.ObservedAt,
		Threshold:     threshold,
		ThresholdSet:  thresholdSet,
		ShouldTrigger: thresholdSet && reading.Value >= threshold,
	}, nil
}
