package store

import "context"

// Querier is the keyed-state surface backing the ledger, registry,
// order book and audit trail. All persistent state is owned here and
// mediated through these operations; services never share mutable
// entities with each other.
type Querier interface {
	// Thresholds
	GetThreshold(ctx context.Context, userAddress string) (Threshold, error)
	UpsertThreshold(ctx context.Context, arg UpsertThresholdParams) (Threshold, error)

	// Deposits, keyed by (user, token)
	GetDeposit(ctx context.Context, arg GetDepositParams) (Deposit, error)
	CreditDeposit(ctx context.Context, arg CreditDepositParams) (Deposit, error)
	// DebitDeposit fails with ErrInsufficientFunds when the balance is
	// lower than the requested amount; it never saturates to zero.
	DebitDeposit(ctx context.Context, arg DebitDepositParams) (Deposit, error)

	// Session grants
	GetSessionGrant(ctx context.Context, arg GetSessionGrantParams) (SessionGrant, error)
	UpsertSessionGrant(ctx context.Context, arg UpsertSessionGrantParams) (SessionGrant, error)

	// Limit orders. CreateLimitOrder assigns the next sequential order id
	// for the user, starting at zero.
	CreateLimitOrder(ctx context.Context, arg CreateLimitOrderParams) (LimitOrder, error)
	GetLimitOrder(ctx context.Context, arg GetLimitOrderParams) (LimitOrder, error)
	ListLimitOrdersByUser(ctx context.Context, userAddress string) ([]LimitOrder, error)
	DeactivateLimitOrder(ctx context.Context, arg DeactivateLimitOrderParams) (LimitOrder, error)

	// Bridge attempt audit records
	CreateBridgeAttempt(ctx context.Context, arg CreateBridgeAttemptParams) (BridgeAttempt, error)
	ListBridgeAttemptsByUser(ctx context.Context, userAddress string) ([]BridgeAttempt, error)

	// Observable events
	CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error)
	ListEventsByUser(ctx context.Context, userAddress string) ([]Event, error)
}
