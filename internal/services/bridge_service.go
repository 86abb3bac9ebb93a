package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/autobridge/autobridge-api/internal/client/payout"
	"github.com/autobridge/autobridge-api/internal/client/transport"
	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/store"
	"go.uber.org/zap"
)

// BridgeConfig holds the deployment-level execution parameters.
type BridgeConfig struct {
	// Destination domain for bridge messages.
	Destination uint32
	// Fixed amount debited per execution, in wei. Constant by design so
	// one automated execution moves a bounded amount.
	TransferAmount *big.Int
	// Tag carried in the cross-domain message payload.
	ActionTag string
}

// BridgeService orchestrates a bridge execution attempt: authorization,
// trigger re-evaluation, funds check, fee quote and validation, atomic
// debit, transport send, and the audit record.
type BridgeService struct {
	queries   store.Querier
	trigger   *TriggerService
	sessions  *SessionService
	ledger    *LedgerService
	transport transport.Transport
	payout    payout.Sender
	events    *EventService
	locks     *AccountLocks
	config    BridgeConfig
	logger    *zap.Logger
}

// NewBridgeService creates a new bridge execution service.
func NewBridgeService(
	queries store.Querier,
	trigger *TriggerService,
	sessions *SessionService,
	ledger *LedgerService,
	bridgeTransport transport.Transport,
	payoutSender payout.Sender,
	events *EventService,
	locks *AccountLocks,
	config BridgeConfig,
) *BridgeService {
	return &BridgeService{
		queries:   queries,
		trigger:   trigger,
		sessions:  sessions,
		ledger:    ledger,
		transport: bridgeTransport,
		payout:    payoutSender,
		events:    events,
		locks:     locks,
		config:    config,
		logger:    logger.Log,
	}
}

// ExecuteParams contains parameters for a bridge execution attempt.
type ExecuteParams struct {
	UserAddress   string
	CallerAddress string
	// Fee payment supplied by the caller, in wei.
	PaidFee *big.Int
}

// ExecuteResult describes a completed bridge execution.
type ExecuteResult struct {
	AttemptID string    `json:"attempt_id"`
	Receipt   string    `json:"receipt"`
	Amount    *big.Int  `json:"-"`
	Fee       *big.Int  `json:"-"`
	Refund    *big.Int  `json:"-"`
	Reading   float64   `json:"reading"`
	Executed  time.Time `json:"executed_at"`
}

// bridgeMessage is the cross-domain payload decoded by the receiving
// side before it performs its local credit.
type bridgeMessage struct {
	UserAddress string `json:"user_address"`
	Amount      string `json:"amount"`
	Timestamp   int64  `json:"timestamp"`
	ActionTag   string `json:"action_tag"`
}

// Execute runs one bridge execution attempt for the user on behalf of
// caller. Every check before the debit is side-effect-free; the debit
// happens before the transport send so a slow or reentrant transport
// cannot be used to double-spend.
func (s *BridgeService) Execute(ctx context.Context, params ExecuteParams) (*ExecuteResult, error) {
	if !helpers.IsAddressValid(params.UserAddress) {
		return nil, ErrInvalidAddress
	}
	userAddress := helpers.NormalizeAddress(params.UserAddress)
	callerAddress := helpers.NormalizeAddress(params.CallerAddress)

	// Step 1: authorization, before anything else.
	if !helpers.SameAddress(userAddress, callerAddress) {
		authorized, err := s.sessions.IsAuthorized(ctx, userAddress, callerAddress)
		if err != nil {
			return nil, err
		}
		if !authorized {
			return nil, ErrCallerNotAuthorized
		}
	}

	// Step 2: trigger condition, re-derived fresh on every call.
	triggerResult, err := s.trigger.Check(ctx, userAddress)
	if err != nil {
		return nil, err
	}
	if !triggerResult.ShouldTrigger {
		return nil, ErrTriggerConditionNotMet
	}

	now := time.Now()
	message, err := json.Marshal(bridgeMessage{
		UserAddress: userAddress,
		Amount:      s.config.TransferAmount.String(),
		Timestamp:   now.Unix(),
		ActionTag:   s.config.ActionTag,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode bridge message: %w", err)
	}

	// Steps 3-5 run under the user's account lock so the funds check and
	// the debit act as one unit.
	fee, err := s.checkAndDebit(ctx, userAddress, message, params.PaidFee)
	if err != nil {
		return nil, err
	}

	// Step 6: transport invocation, after the debit.
	receipt, err := s.transport.Send(ctx, s.config.Destination, message, fee)
	if err != nil {
		// Compensating credit so a transport failure leaves the ledger
		// exactly as it was before the attempt.
		if creditErr := s.ledger.Credit(ctx, userAddress, constants.NativeToken, s.config.TransferAmount); creditErr != nil {
			s.logger.Error("Failed to restore deposit after transport failure",
				zap.String("user_address", userAddress),
				zap.Error(creditErr))
		}
		s.recordAttempt(ctx, userAddress, callerAddress, fee, constants.StatusFailed, err.Error(), "")
		s.events.Record(ctx, constants.EventBridgeFailed, userAddress, map[string]interface{}{
			"destination": s.config.Destination,
			"reason":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}

	// Step 7: audit record and excess fee refund.
	attempt := s.recordAttempt(ctx, userAddress, callerAddress, fee, constants.StatusInitiated, "", receipt)
	s.events.Record(ctx, constants.EventBridgeInitiated, userAddress, map[string]interface{}{
		"destination": s.config.Destination,
		"amount":      s.config.TransferAmount.String(),
		"fee":         fee.String(),
		"receipt":     receipt,
	})

	refund := new(big.Int).Sub(params.PaidFee, fee)
	if refund.Sign() > 0 {
		if _, err := s.payout.Send(ctx, callerAddress, constants.NativeToken, refund); err != nil {
			// The bridge already happened; an unrefunded excess is an
			// operational problem, not a failed execution.
			s.logger.Error("Failed to refund excess fee",
				zap.String("caller_address", callerAddress),
				zap.String("refund", refund.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("Bridge initiated",
		zap.String("user_address", userAddress),
		zap.String("caller_address", callerAddress),
		zap.Uint32("destination", s.config.Destination),
		zap.String("amount", s.config.TransferAmount.String()),
		zap.String("fee", fee.String()),
		zap.String("receipt", receipt))

	return &ExecuteResult{
		AttemptID: attempt,
		Receipt:   receipt,
		Amount:    new(big.Int).Set(s.config.TransferAmount),
		Fee:       fee,
		Refund:    refund,
		Reading:   triggerResult.Reading,
		Executed:  now,
	}, nil
}

// checkAndDebit performs the funds check, fee quote, fee validation and
// debit atomically with respect to other executions for the same user.
// Returns the quoted native fee.
func (s *BridgeService) checkAndDebit(ctx context.Context, userAddress string, message []byte, paidFee *big.Int) (*big.Int, error) {
	s.locks.Lock(userAddress)
	defer s.locks.Unlock(userAddress)

	// Step 3: funds check against the fixed per-execution amount.
	balance, err := s.ledger.GetDeposit(ctx, userAddress, constants.NativeToken)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(s.config.TransferAmount) < 0 {
		return nil, ErrInsufficientDeposit
	}

	// Step 4: fee quote and validation.
	quote, err := s.transport.Quote(ctx, s.config.Destination, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransportFailure, err)
	}
	if paidFee == nil || paidFee.Cmp(quote.NativeFee) < 0 {
		return nil, ErrInsufficientFee
	}

	// Step 5: the debit, still under the lock.
	if err := s.ledger.Debit(ctx, userAddress, constants.NativeToken, s.config.TransferAmount); err != nil {
		return nil, err
	}

	return quote.NativeFee, nil
}

func (s *BridgeService) recordAttempt(ctx context.Context, userAddress, callerAddress string, fee *big.Int, status, reason, receipt string) string {
	attempt, err := s.queries.CreateBridgeAttempt(ctx, store.CreateBridgeAttemptParams{
		UserAddress:   userAddress,
		CallerAddress: callerAddress,
		Destination:   s.config.Destination,
		Amount:        s.config.TransferAmount,
		Fee:           fee,
		Status:        status,
		FailureReason: reason,
		Receipt:       receipt,
	})
	if err != nil {
		s.logger.Error("Failed to record bridge attempt",
			zap.String("user_address", userAddress),
			zap.Error(err))
		return ""
	}
	return attempt.ID.String()
}

// ListAttempts returns the audit trail of execution attempts for a user.
func (s *BridgeService) ListAttempts(ctx context.Context, userAddress string) ([]store.BridgeAttempt, error) {
	return s.queries.ListBridgeAttemptsByUser(ctx, helpers.NormalizeAddress(userAddress))
}
