package store

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the pgx-backed Querier implementation. Wei amounts are
// stored as NUMERIC(78,0) and scanned through their decimal string form.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Querier = (*PostgresStore)(nil)

// NewPostgresStore wraps an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func parseStoredAmount(s string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt amount in storage: %q", s)
	}
	return amount, nil
}

func (p *PostgresStore) GetThreshold(ctx context.Context, userAddress string) (Threshold, error) {
	var threshold Threshold
	err := p.pool.QueryRow(ctx,
		`SELECT user_address, value, updated_at FROM thresholds WHERE user_address = $1`,
		userAddress,
	).Scan(&threshold.UserAddress, &threshold.Value, &threshold.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Threshold{}, ErrNotFound
		}
		return Threshold{}, fmt.Errorf("failed to get threshold: %w", err)
	}
	return threshold, nil
}

func (p *PostgresStore) UpsertThreshold(ctx context.Context, arg UpsertThresholdParams) (Threshold, error) {
	var threshold Threshold
	err := p.pool.QueryRow(ctx,
		`INSERT INTO thresholds (user_address, value, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_address) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		 RETURNING user_address, value, updated_at`,
		arg.UserAddress, arg.Value,
	).Scan(&threshold.UserAddress, &threshold.Value, &threshold.UpdatedAt)
	if err != nil {
		return Threshold{}, fmt.Errorf("failed to upsert threshold: %w", err)
	}
	return threshold, nil
}

func (p *PostgresStore) GetDeposit(ctx context.Context, arg GetDepositParams) (Deposit, error) {
	var deposit Deposit
	var amountStr string
	err := p.pool.QueryRow(ctx,
		`SELECT user_address, token, amount::text, updated_at
		 FROM deposits WHERE user_address = $1 AND token = $2`,
		arg.UserAddress, arg.Token,
	).Scan(&deposit.UserAddress, &deposit.Token, &amountStr, &deposit.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deposit{}, ErrNotFound
		}
		return Deposit{}, fmt.Errorf("failed to get deposit: %w", err)
	}
	if deposit.Amount, err = parseStoredAmount(amountStr); err != nil {
		return Deposit{}, err
	}
	return deposit, nil
}

func (p *PostgresStore) CreditDeposit(ctx context.Context, arg CreditDepositParams) (Deposit, error) {
	var deposit Deposit
	var amountStr string
	err := p.pool.QueryRow(ctx,
		`INSERT INTO deposits (user_address, token, amount, updated_at)
		 VALUES ($1, $2, $3::numeric, now())
		 ON CONFLICT (user_address, token)
		 DO UPDATE SET amount = deposits.amount + EXCLUDED.amount, updated_at = now()
		 RETURNING user_address, token, amount::text, updated_at`,
		arg.UserAddress, arg.Token, arg.Amount.String(),
	).Scan(&deposit.UserAddress, &deposit.Token, &amountStr, &deposit.UpdatedAt)
	if err != nil {
		return Deposit{}, fmt.Errorf("failed to credit deposit: %w", err)
	}
	if deposit.Amount, err = parseStoredAmount(amountStr); err != nil {
		return Deposit{}, err
	}
	return deposit, nil
}

func (p *PostgresStore) DebitDeposit(ctx context.Context, arg DebitDepositParams) (Deposit, error) {
	var deposit Deposit
	var amountStr string
	// The amount guard in the WHERE clause makes check-and-debit a single
	// atomic statement; a failed guard surfaces as no row.
	err := p.pool.QueryRow(ctx,
		`UPDATE deposits
		 SET amount = amount - $3::numeric, updated_at = now()
		 WHERE user_address = $1 AND token = $2 AND amount >= $3::numeric
		 RETURNING user_address, token, amount::text, updated_at`,
		arg.UserAddress, arg.Token, arg.Amount.String(),
	).Scan(&deposit.UserAddress, &deposit.Token, &amountStr, &deposit.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Deposit{}, ErrInsufficientFunds
		}
		return Deposit{}, fmt.Errorf("failed to debit deposit: %w", err)
	}
	if deposit.Amount, err = parseStoredAmount(amountStr); err != nil {
		return Deposit{}, err
	}
	return deposit, nil
}

func (p *PostgresStore) GetSessionGrant(ctx context.Context, arg GetSessionGrantParams) (SessionGrant, error) {
	var grant SessionGrant
	err := p.pool.QueryRow(ctx,
		`SELECT user_address, session_key, authorized, authorized_at
		 FROM session_grants WHERE user_address = $1 AND session_key = $2`,
		arg.UserAddress, arg.SessionKey,
	).Scan(&grant.UserAddress, &grant.SessionKey, &grant.Authorized, &grant.AuthorizedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SessionGrant{}, ErrNotFound
		}
		return SessionGrant{}, fmt.Errorf("failed to get session grant: %w", err)
	}
	return grant, nil
}

func (p *PostgresStore) UpsertSessionGrant(ctx context.Context, arg UpsertSessionGrantParams) (SessionGrant, error) {
	var grant SessionGrant
	err := p.pool.QueryRow(ctx,
		`INSERT INTO session_grants (user_address, session_key, authorized, authorized_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_address, session_key)
		 DO UPDATE SET authorized = EXCLUDED.authorized, authorized_at = EXCLUDED.authorized_at
		 RETURNING user_address, session_key, authorized, authorized_at`,
		arg.UserAddress, arg.SessionKey, arg.Authorized, arg.AuthorizedAt,
	).Scan(&grant.UserAddress, &grant.SessionKey, &grant.Authorized, &grant.AuthorizedAt)
	if err != nil {
		return SessionGrant{}, fmt.Errorf("failed to upsert session grant: %w", err)
	}
	return grant, nil
}

func (p *PostgresStore) CreateLimitOrder(ctx context.Context, arg CreateLimitOrderParams) (LimitOrder, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return LimitOrder{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var orderID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO order_counters (user_address, next_id) VALUES ($1, 1)
		 ON CONFLICT (user_address) DO UPDATE SET next_id = order_counters.next_id + 1
		 RETURNING next_id - 1`,
		arg.UserAddress,
	).Scan(&orderID)
	if err != nil {
		return LimitOrder{}, fmt.Errorf("failed to allocate order id: %w", err)
	}

	order := LimitOrder{}
	var amountStr string
	err = tx.QueryRow(ctx,
		`INSERT INTO limit_orders
		   (user_address, order_id, token_in, token_out, amount_in, limit_price, is_buy, is_active, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6, $7, TRUE, $8, now())
		 RETURNING user_address, order_id, token_in, token_out, amount_in::text, limit_price, is_buy, is_active, expires_at, created_at`,
		arg.UserAddress, orderID, arg.TokenIn, arg.TokenOut, arg.AmountIn.String(),
		arg.LimitPrice, arg.IsBuy, arg.ExpiresAt,
	).Scan(&order.UserAddress, &order.OrderID, &order.TokenIn, &order.TokenOut, &amountStr,
		&order.LimitPrice, &order.IsBuy, &order.IsActive, &order.ExpiresAt, &order.CreatedAt)
	if err != nil {
		return LimitOrder{}, fmt.Errorf("failed to create limit order: %w", err)
	}
	if order.AmountIn, err = parseStoredAmount(amountStr); err != nil {
		return LimitOrder{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return LimitOrder{}, fmt.Errorf("failed to commit limit order: %w", err)
	}
	return order, nil
}

func (p *PostgresStore) scanLimitOrder(row pgx.Row) (LimitOrder, error) {
	var order LimitOrder
	var amountStr string
	err := row.Scan(&order.UserAddress, &order.OrderID, &order.TokenIn, &order.TokenOut, &amountStr,
		&order.LimitPrice, &order.IsBuy, &order.IsActive, &order.ExpiresAt, &order.CreatedAt)
	if err != nil {
		return LimitOrder{}, err
	}
	if order.AmountIn, err = parseStoredAmount(amountStr); err != nil {
		return LimitOrder{}, err
	}
	return order, nil
}

func (p *PostgresStore) GetLimitOrder(ctx context.Context, arg GetLimitOrderParams) (LimitOrder, error) {
	order, err := p.scanLimitOrder(p.pool.QueryRow(ctx,
		`SELECT user_address, order_id, token_in, token_out, amount_in::text, limit_price, is_buy, is_active, expires_at, created_at
		 FROM limit_orders WHERE user_address = $1 AND order_id = $2`,
		arg.UserAddress, arg.OrderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LimitOrder{}, ErrNotFound
		}
		return LimitOrder{}, fmt.Errorf("failed to get limit order: %w", err)
	}
	return order, nil
}

func (p *PostgresStore) ListLimitOrdersByUser(ctx context.Context, userAddress string) ([]LimitOrder, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT user_address, order_id, token_in, token_out, amount_in::text, limit_price, is_buy, is_active, expires_at, created_at
		 FROM limit_orders WHERE user_address = $1 ORDER BY order_id`,
		userAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list limit orders: %w", err)
	}
	defer rows.Close()

	var orders []LimitOrder
	for rows.Next() {
		order, err := p.scanLimitOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan limit order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (p *PostgresStore) DeactivateLimitOrder(ctx context.Context, arg DeactivateLimitOrderParams) (LimitOrder, error) {
	order, err := p.scanLimitOrder(p.pool.QueryRow(ctx,
		`UPDATE limit_orders SET is_active = FALSE
		 WHERE user_address = $1 AND order_id = $2
		 RETURNING user_address, order_id, token_in, token_out, amount_in::text, limit_price, is_buy, is_active, expires_at, created_at`,
		arg.UserAddress, arg.OrderID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LimitOrder{}, ErrNotFound
		}
		return LimitOrder{}, fmt.Errorf("failed to deactivate limit order: %w", err)
	}
	return order, nil
}

func (p *PostgresStore) CreateBridgeAttempt(ctx context.Context, arg CreateBridgeAttemptParams) (BridgeAttempt, error) {
	attempt := BridgeAttempt{ID: uuid.New()}
	var amountStr, feeStr string
	err := p.pool.QueryRow(ctx,
		`INSERT INTO bridge_attempts
		   (id, user_address, caller_address, destination, amount, fee, status, failure_reason, receipt, created_at)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7, $8, $9, now())
		 RETURNING id, user_address, caller_address, destination, amount::text, fee::text, status, failure_reason, receipt, created_at`,
		attempt.ID, arg.UserAddress, arg.CallerAddress, arg.Destination,
		arg.Amount.String(), arg.Fee.String(), arg.Status, arg.FailureReason, arg.Receipt,
	).Scan(&attempt.ID, &attempt.UserAddress, &attempt.CallerAddress, &attempt.Destination,
		&amountStr, &feeStr, &attempt.Status, &attempt.FailureReason, &attempt.Receipt, &attempt.CreatedAt)
	if err != nil {
		return BridgeAttempt{}, fmt.Errorf("failed to create bridge attempt: %w", err)
	}
	if attempt.Amount, err = parseStoredAmount(amountStr); err != nil {
		return BridgeAttempt{}, err
	}
	if attempt.Fee, err = parseStoredAmount(feeStr); err != nil {
		return BridgeAttempt{}, err
	}
	return attempt, nil
}

func (p *PostgresStore) ListBridgeAttemptsByUser(ctx context.Context, userAddress string) ([]BridgeAttempt, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, user_address, caller_address, destination, amount::text, fee::text, status, failure_reason, receipt, created_at
		 FROM bridge_attempts WHERE user_address = $1 ORDER BY created_at`,
		userAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bridge attempts: %w", err)
	}
	defer rows.Close()

	var attempts []BridgeAttempt
	for rows.Next() {
		var attempt BridgeAttempt
		var amountStr, feeStr string
		err := rows.Scan(&attempt.ID, &attempt.UserAddress, &attempt.CallerAddress, &attempt.Destination,
			&amountStr, &feeStr, &attempt.Status, &attempt.FailureReason, &attempt.Receipt, &attempt.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bridge attempt: %w", err)
		}
		if attempt.Amount, err = parseStoredAmount(amountStr); err != nil {
			return nil, err
		}
		if attempt.Fee, err = parseStoredAmount(feeStr); err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

func (p *PostgresStore) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	event := Event{ID: uuid.New()}
	err := p.pool.QueryRow(ctx,
		`INSERT INTO events (id, event_type, user_address, payload, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, event_type, user_address, payload, created_at`,
		event.ID, arg.EventType, arg.UserAddress, arg.Payload,
	).Scan(&event.ID, &event.EventType, &event.UserAddress, &event.Payload, &event.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

func (p *PostgresStore) ListEventsByUser(ctx context.Context, userAddress string) ([]Event, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, event_type, user_address, payload, created_at
		 FROM events WHERE user_address = $1 ORDER BY created_at`,
		userAddress,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.EventType, &event.UserAddress, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
