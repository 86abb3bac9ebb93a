package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/client/swap"
	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/store"
	"go.uber.org/zap"
)

// OrderService manages per-user limit orders. Creating an order moves
// the input amount out of the user's spendable deposit and holds it
// against the order until the order is executed or cancelled.
type OrderService struct {
	queries  store.Querier
	sessions *SessionService
	ledger   *LedgerService
	prices   oracle.Oracle
	swaps    swap.Executor
	events   *EventService
	locks    *AccountLocks
	// Price readings older than maxAge fail with ErrStaleReading. Zero
	// disables the check.
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewOrderService creates a new limit order service.
func NewOrderService(
	queries store.Querier,
	sessions *SessionService,
	ledger *LedgerService,
	prices oracle.Oracle,
	swaps swap.Executor,
	events *EventService,
	locks *AccountLocks,
	maxAge time.Duration,
) *OrderService {
	return &OrderService{
		queries:  queries,
		sessions: sessions,
		ledger:   ledger,
		prices:   prices,
		swaps:    swaps,
		events:   events,
		locks:    locks,
		maxAge:   maxAge,
		logger:   logger.Log,
		now:      time.Now,
	}
}

// CreateLimitOrderParams contains parameters for creating a limit order.
type CreateLimitOrderParams struct {
	UserAddress string
	TokenIn     string
	TokenOut    string
	AmountIn    *big.Int
	LimitPrice  float64
	IsBuy       bool
	// ValidityDays controls the order's expiration, counted from now.
	ValidityDays int
}

// CreateLimitOrder validates and records a new order, locking the input
// amount against it. Order IDs are sequential per user, starting at 0.
func (s *OrderService) CreateLimitOrder(ctx context.Context, params CreateLimitOrderParams) (store.LimitOrder, error) {
	if !helpers.IsAddressValid(params.UserAddress) {
		return store.LimitOrder{}, ErrInvalidAddress
	}
	if params.TokenIn == "" || params.TokenOut == "" || params.TokenIn == params.TokenOut {
		return store.LimitOrder{}, ErrInvalidTokenPair
	}
	if params.AmountIn == nil || params.AmountIn.Sign() <= 0 {
		return store.LimitOrder{}, ErrZeroAmount
	}
	if params.LimitPrice <= 0 {
		return store.LimitOrder{}, ErrInvalidPrice
	}
	if params.ValidityDays < constants.MinOrderValidityDays || params.ValidityDays > constants.MaxOrderValidityDays {
		return store.LimitOrder{}, ErrInvalidExpiration
	}
	userAddress := helpers.NormalizeAddress(params.UserAddress)

	s.locks.Lock(userAddress)
	defer s.locks.Unlock(userAddress)

	balance, err := s.ledger.GetDeposit(ctx, userAddress, params.TokenIn)
	if err != nil {
		return store.LimitOrder{}, err
	}
	if balance.Cmp(params.AmountIn) < 0 {
		return store.LimitOrder{}, ErrInsufficientBalance
	}

	// The held amount leaves the spendable deposit here and only comes
	// back through cancellation.
	if err := s.ledger.Debit(ctx, userAddress, params.TokenIn, params.AmountIn); err != nil {
		return store.LimitOrder{}, err
	}

	order, err := s.queries.CreateLimitOrder(ctx, store.CreateLimitOrderParams{
		UserAddress: userAddress,
		TokenIn:     params.TokenIn,
		TokenOut:    params.TokenOut,
		AmountIn:    params.AmountIn,
		LimitPrice:  params.LimitPrice,
		IsBuy:       params.IsBuy,
		ExpiresAt:   s.now().AddDate(0, 0, params.ValidityDays),
	})
	if err != nil {
		if creditErr := s.ledger.Credit(ctx, userAddress, params.TokenIn, params.AmountIn); creditErr != nil {
			s.logger.Error("Failed to restore deposit after order creation failure",
				zap.String("user_address", userAddress),
				zap.Error(creditErr))
		}
		return store.LimitOrder{}, fmt.Errorf("failed to create limit order: %w", err)
	}

	s.events.Record(ctx, constants.EventOrderCreated, userAddress, map[string]interface{}{
		"order_id":    order.OrderID,
		"token_in":    order.TokenIn,
		"token_out":   order.TokenOut,
		"amount_in":   order.AmountIn.String(),
		"limit_price": order.LimitPrice,
		"is_buy":      order.IsBuy,
		"expires_at":  order.ExpiresAt,
	})

	s.logger.Info("Limit order created",
		zap.String("user_address", userAddress),
		zap.Int64("order_id", order.OrderID),
		zap.String("token_in", order.TokenIn),
		zap.String("token_out", order.TokenOut),
		zap.Float64("limit_price", order.LimitPrice),
		zap.Bool("is_buy", order.IsBuy))

	return order, nil
}

// CancelLimitOrder deactivates an active order and returns the held
// input amount to the user's deposit. Expired orders can still be
// cancelled; that is the path for recovering their held funds. The
// caller must be the user or hold an authorized session.
func (s *OrderService) CancelLimitOrder(ctx context.Context, userAddress, callerAddress string, orderID int64) error {
	if !helpers.IsAddressValid(userAddress) {
		return ErrInvalidAddress
	}
	userAddress = helpers.NormalizeAddress(userAddress)

	if err := s.authorizeCaller(ctx, userAddress, callerAddress); err != nil {
		return err
	}

	s.locks.Lock(userAddress)
	defer s.locks.Unlock(userAddress)

	order, err := s.getOrder(ctx, userAddress, orderID)
	if err != nil {
		return err
	}
	if !order.IsActive {
		return ErrOrderNotActive
	}

	if _, err := s.queries.DeactivateLimitOrder(ctx, store.DeactivateLimitOrderParams{
		UserAddress: userAddress,
		OrderID:     orderID,
	}); err != nil {
		return fmt.Errorf("failed to deactivate limit order: %w", err)
	}
	if err := s.ledger.Credit(ctx, userAddress, order.TokenIn, order.AmountIn); err != nil {
		return err
	}

	s.events.Record(ctx, constants.EventOrderCancelled, userAddress, map[string]interface{}{
		"order_id": orderID,
		"refund":   order.AmountIn.String(),
	})

	s.logger.Info("Limit order cancelled",
		zap.String("user_address", userAddress),
		zap.Int64("order_id", orderID))

	return nil
}

// OrderExecution describes a completed order execution.
type OrderExecution struct {
	Order     store.LimitOrder
	Price     float64
	AmountOut *big.Int
}

// ExecuteLimitOrder executes an order whose price condition is met: buy
// orders execute at or below the limit price, sell orders at or above
// it. The held input amount is swapped and the proceeds credited to the
// user's deposit in the output token. Each order executes at most once.
// The caller must be the user or hold an authorized session.
func (s *OrderService) ExecuteLimitOrder(ctx context.Context, userAddress, callerAddress string, orderID int64) (*OrderExecution, error) {
	if !helpers.IsAddressValid(userAddress) {
		return nil, ErrInvalidAddress
	}
	userAddress = helpers.NormalizeAddress(userAddress)

	// Authorization first, like a bridge execution: funds only move for
	// the user themselves or an authorized session.
	if err := s.authorizeCaller(ctx, userAddress, callerAddress); err != nil {
		return nil, err
	}

	s.locks.Lock(userAddress)
	defer s.locks.Unlock(userAddress)

	order, err := s.getOrder(ctx, userAddress, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsActive {
		return nil, ErrOrderNotActive
	}
	if s.now().After(order.ExpiresAt) {
		return nil, ErrOrderExpired
	}

	price, err := s.currentPrice(ctx)
	if err != nil {
		return nil, err
	}
	if !priceConditionMet(order, price) {
		return nil, ErrPriceConditionNotMet
	}

	// Swap first: a failed swap leaves the order active and the held
	// amount untouched, so the attempt can be retried.
	amountOut, err := s.swaps.Swap(ctx, order.TokenIn, order.TokenOut, order.AmountIn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSwapFailure, err)
	}

	if _, err := s.queries.DeactivateLimitOrder(ctx, store.DeactivateLimitOrderParams{
		UserAddress: userAddress,
		OrderID:     orderID,
	}); err != nil {
		return nil, fmt.Errorf("failed to deactivate limit order: %w", err)
	}
	if err := s.ledger.Credit(ctx, userAddress, order.TokenOut, amountOut); err != nil {
		return nil, err
	}

	s.events.Record(ctx, constants.EventOrderExecuted, userAddress, map[string]interface{}{
		"order_id":   orderID,
		"price":      price,
		"amount_in":  order.AmountIn.String(),
		"amount_out": amountOut.String(),
		"token_out":  order.TokenOut,
	})

	s.logger.Info("Limit order executed",
		zap.String("user_address", userAddress),
		zap.Int64("order_id", orderID),
		zap.Float64("price", price),
		zap.String("amount_out", amountOut.String()))

	return &OrderExecution{Order: order, Price: price, AmountOut: amountOut}, nil
}

// CanExecute reports whether an order is currently executable, without
// side effects. Used by the monitor worker to decide which orders to
// attempt.
func (s *OrderService) CanExecute(ctx context.Context, userAddress string, orderID int64) (bool, error) {
	order, err := s.getOrder(ctx, helpers.NormalizeAddress(userAddress), orderID)
	if err != nil {
		return false, err
	}
	if !order.IsActive || s.now().After(order.ExpiresAt) {
		return false, nil
	}
	price, err := s.currentPrice(ctx)
	if err != nil {
		return false, err
	}
	return priceConditionMet(order, price), nil
}

// GetOrder returns a single order for a user.
func (s *OrderService) GetOrder(ctx context.Context, userAddress string, orderID int64) (store.LimitOrder, error) {
	return s.getOrder(ctx, helpers.NormalizeAddress(userAddress), orderID)
}

// ListOrders returns all of a user's orders, active and inactive.
func (s *OrderService) ListOrders(ctx context.Context, userAddress string) ([]store.LimitOrder, error) {
	return s.queries.ListLimitOrdersByUser(ctx, helpers.NormalizeAddress(userAddress))
}

func (s *OrderService) getOrder(ctx context.Context, userAddress string, orderID int64) (store.LimitOrder, error) {
	order, err := s.queries.GetLimitOrder(ctx, store.GetLimitOrderParams{
		UserAddress: userAddress,
		OrderID:     orderID,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.LimitOrder{}, ErrOrderNotFound
		}
		return store.LimitOrder{}, fmt.Errorf("failed to get limit order: %w", err)
	}
	return order, nil
}

func (s *OrderService) authorizeCaller(ctx context.Context, userAddress, callerAddress string) error {
	if helpers.SameAddress(userAddress, callerAddress) {
		return nil
	}
	authorized, err := s.sessions.IsAuthorized(ctx, userAddress, callerAddress)
	if err != nil {
		return err
	}
	if !authorized {
		return ErrCallerNotAuthorized
	}
	return nil
}

func (s *OrderService) currentPrice(ctx context.Context) (float64, error) {
	reading, err := s.prices.Read(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	if s.maxAge > 0 && s.now().Sub(reading.ObservedAt) > s.maxAge {
		return 0, fmt.Errorf("%w: observed at %s", ErrStaleReading, reading.ObservedAt.Format(time.RFC3339))
	}
	return reading.Value, nil
}

func priceConditionMet(order store.LimitOrder, price float64) bool {
	if order.IsBuy {
		return price <= order.LimitPrice
	}
	return price >= order.LimitPrice
}
