package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/autobridge/autobridge-api/internal/client/payout"
	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/store"
	"go.uber.org/zap"
)

// LedgerService owns per-user threshold and deposit bookkeeping. All
// balance reads and writes anywhere in the system go through here.
type LedgerService struct {
	queries store.Querier
	payout  payout.Sender
	events  *EventService
	locks   *AccountLocks
	logger  *zap.Logger
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(queries store.Querier, payoutSender payout.Sender, events *EventService, locks *AccountLocks) *LedgerService {
	return &LedgerService{
		queries: queries,
		payout:  payoutSender,
		events:  events,
		locks:   locks,
		logger:  logger.Log,
	}
}

// SetThreshold overwrites the user's trigger threshold. Last write wins;
// no history is kept.
func (s *LedgerService) SetThreshold(ctx context.Context, userAddress string, value float64) error {
	if !helpers.IsAddressValid(userAddress) {
		return ErrInvalidAddress
	}
	if value <= 0 {
		return ErrInvalidThreshold
	}

	userAddress = helpers.NormalizeAddress(userAddress)
	if _, err := s.queries.UpsertThreshold(ctx, store.UpsertThresholdParams{
		UserAddress: userAddress,
		Value:       value,
	}); err != nil {
		s.logger.Error("Failed to set threshold",
			zap.String("user_address", userAddress),
			zap.Float64("value", value),
			zap.Error(err))
		return fmt.Errorf("failed to set threshold: %w", err)
	}

	s.events.Record(ctx, constants.EventThresholdSet, userAddress, map[string]interface{}{
		"value": value,
	})
	return nil
}

// GetThreshold returns the stored threshold and whether one is set.
// An unset threshold is not an error.
func (s *LedgerService) GetThreshold(ctx context.Context, userAddress string) (float64, bool, error) {
	userAddress = helpers.NormalizeAddress(userAddress)
	threshold, err := s.queries.GetThreshold(ctx, userAddress)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get threshold: %w", err)
	}
	return threshold.Value, true, nil
}

// Deposit credits amount to the user's balance for token.
func (s *LedgerService) Deposit(ctx context.Context, userAddress, token string, amount *big.Int) (*big.Int, error) {
	if !helpers.IsAddressValid(userAddress) {
		return nil, ErrInvalidAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if token == "" {
		token = constants.NativeToken
	}

	userAddress = helpers.NormalizeAddress(userAddress)
	deposit, err := s.queries.CreditDeposit(ctx, store.CreditDepositParams{
		UserAddress: userAddress,
		Token:       token,
		Amount:      amount,
	})
	if err != nil {
		s.logger.Error("Failed to credit deposit",
			zap.String("user_address", userAddress),
			zap.String("token", token),
			zap.Error(err))
		return nil, fmt.Errorf("failed to credit deposit: %w", err)
	}

	s.logger.Info("Deposit credited",
		zap.String("user_address", userAddress),
		zap.String("token", token),
		zap.String("amount", amount.String()),
		zap.String("balance", deposit.Amount.String()))

	s.events.Record(ctx, constants.EventDeposited, userAddress, map[string]interface{}{
		"token":  token,
		"amount": amount.String(),
	})
	return deposit.Amount, nil
}

// Withdraw debits amount from the user's balance and pays it out to the
// user's address. The payout runs before the debit, under the user's
// account lock, so a failed payout leaves the balance untouched.
func (s *LedgerService) Withdraw(ctx context.Context, userAddress, token string, amount *big.Int) (*big.Int, error) {
	if !helpers.IsAddressValid(userAddress) {
		return nil, ErrInvalidAddress
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, ErrZeroAmount
	}
	if token == "" {
		token = constants.NativeToken
	}
	userAddress = helpers.NormalizeAddress(userAddress)

	s.locks.Lock(userAddress)
	defer s.locks.Unlock(userAddress)

	balance, err := s.getBalance(ctx, userAddress, token)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(amount) < 0 {
		return nil, ErrInsufficientBalance
	}

	txHash, err := s.payout.Send(ctx, userAddress, token, amount)
	if err != nil {
		s.logger.Error("Withdrawal payout failed",
			zap.String("user_address", userAddress),
			zap.String("token", token),
			zap.String("amount", amount.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailure, err)
	}

	deposit, err := s.queries.DebitDeposit(ctx, store.DebitDepositParams{
		UserAddress: userAddress,
		Token:       token,
		Amount:      amount,
	})
	if err != nil {
		// The balance was checked under the lock; a failure here is a
		// storage fault, not an overdraft.
		s.logger.Error("Failed to debit withdrawn deposit",
			zap.String("user_address", userAddress),
			zap.String("tx_hash", txHash),
			zap.Error(err))
		return nil, fmt.Errorf("failed to debit deposit: %w", err)
	}

	s.events.Record(ctx, constants.EventWithdrawn, userAddress, map[string]interface{}{
		"token":   token,
		"amount":  amount.String(),
		"tx_hash": txHash,
	})
	return deposit.Amount, nil
}

// GetDeposit returns the user's balance for token, zero for unknown users.
func (s *LedgerService) GetDeposit(ctx context.Context, userAddress, token string) (*big.Int, error) {
	if token == "" {
		token = constants.NativeToken
	}
	return s.getBalance(ctx, helpers.NormalizeAddress(userAddress), token)
}

// Credit adds amount to a (user, token) balance without emitting a
// deposit event. Used by execution flows crediting swap output or
// rolling back a debit.
func (s *LedgerService) Credit(ctx context.Context, userAddress, token string, amount *big.Int) error {
	_, err := s.queries.CreditDeposit(ctx, store.CreditDepositParams{
		UserAddress: helpers.NormalizeAddress(userAddress),
		Token:       token,
		Amount:      amount,
	})
	if err != nil {
		return fmt.Errorf("failed to credit deposit: %w", err)
	}
	return nil
}

// Debit removes amount from a (user, token) balance. The caller must
// hold the user's account lock and have verified the balance.
func (s *LedgerService) Debit(ctx context.Context, userAddress, token string, amount *big.Int) error {
	_, err := s.queries.DebitDeposit(ctx, store.DebitDepositParams{
		UserAddress: helpers.NormalizeAddress(userAddress),
		Token:       token,
		Amount:      amount,
	})
	if err != nil {
		if errors.Is(err, store.ErrInsufficientFunds) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to debit deposit: %w", err)
	}
	return nil
}

func (s *LedgerService) getBalance(ctx context.Context, userAddress, token string) (*big.Int, error) {
	deposit, err := s.queries.GetDeposit(ctx, store.GetDepositParams{
		UserAddress: userAddress,
		Token:       token,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return new(big.Int), nil
		}
		return nil, fmt.Errorf("failed to get deposit: %w", err)
	}
	return deposit.Amount, nil
}
