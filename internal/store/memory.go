package store

import (
	"context"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type depositKey struct {
	user  string
	token string
}

type grantKey struct {
	user    string
	session string
}

type orderKey struct {
	user string
	id   int64
}

// MemoryStore is a mutex-guarded in-memory Querier implementation used in
// tests and in local mode when no DATABASE_URL is configured.
type MemoryStore struct {
	mu sync.Mutex

	thresholds    map[string]Threshold
	deposits      map[depositKey]*big.Int
	depositTimes  map[depositKey]time.Time
	grants        map[grantKey]SessionGrant
	orders        map[orderKey]LimitOrder
	orderCounters map[string]int64
	attempts      []BridgeAttempt
	events        []Event
}

var _ Querier = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		thresholds:    make(map[string]Threshold),
		deposits:      make(map[depositKey]*big.Int),
		depositTimes:  make(map[depositKey]time.Time),
		grants:        make(map[grantKey]SessionGrant),
		orders:        make(map[orderKey]LimitOrder),
		orderCounters: make(map[string]int64),
	}
}

func (m *MemoryStore) GetThreshold(ctx context.Context, userAddress string) (Threshold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold, ok := m.thresholds[userAddress]
	if !ok {
		return Threshold{}, ErrNotFound
	}
	return threshold, nil
}

func (m *MemoryStore) UpsertThreshold(ctx context.Context, arg UpsertThresholdParams) (Threshold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	threshold := Threshold{
		UserAddress: arg.UserAddress,
		Value:       arg.Value,
		UpdatedAt:   time.Now(),
	}
	m.thresholds[arg.UserAddress] = threshold
	return threshold, nil
}

func (m *MemoryStore) GetDeposit(ctx context.Context, arg GetDepositParams) (Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := depositKey{user: arg.UserAddress, token: arg.Token}
	balance, ok := m.deposits[key]
	if !ok {
		return Deposit{}, ErrNotFound
	}
	return Deposit{
		UserAddress: arg.UserAddress,
		Token:       arg.Token,
		Amount:      new(big.Int).Set(balance),
		UpdatedAt:   m.depositTimes[key],
	}, nil
}

func (m *MemoryStore) CreditDeposit(ctx context.Context, arg CreditDepositParams) (Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := depositKey{user: arg.UserAddress, token: arg.Token}
	balance, ok := m.deposits[key]
	if !ok {
		balance = new(big.Int)
		m.deposits[key] = balance
	}
	balance.Add(balance, arg.Amount)
	m.depositTimes[key] = time.Now()

	return Deposit{
		UserAddress: arg.UserAddress,
		Token:       arg.Token,
		Amount:      new(big.Int).Set(balance),
		UpdatedAt:   m.depositTimes[key],
	}, nil
}

func (m *MemoryStore) DebitDeposit(ctx context.Context, arg DebitDepositParams) (Deposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := depositKey{user: arg.UserAddress, token: arg.Token}
	balance, ok := m.deposits[key]
	if !ok || balance.Cmp(arg.Amount) < 0 {
		return Deposit{}, ErrInsufficientFunds
	}
	balance.Sub(balance, arg.Amount)
	m.depositTimes[key] = time.Now()

	return Deposit{
		UserAddress: arg.UserAddress,
		Token:       arg.Token,
		Amount:      new(big.Int).Set(balance),
		UpdatedAt:   m.depositTimes[key],
	}, nil
}

func (m *MemoryStore) GetSessionGrant(ctx context.Context, arg GetSessionGrantParams) (SessionGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grant, ok := m.grants[grantKey{user: arg.UserAddress, session: arg.SessionKey}]
	if !ok {
		return SessionGrant{}, ErrNotFound
	}
	return grant, nil
}

func (m *MemoryStore) UpsertSessionGrant(ctx context.Context, arg UpsertSessionGrantParams) (SessionGrant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	grant := SessionGrant{
		UserAddress:  arg.UserAddress,
		SessionKey:   arg.SessionKey,
		Authorized:   arg.Authorized,
		AuthorizedAt: arg.AuthorizedAt,
	}
	m.grants[grantKey{user: arg.UserAddress, session: arg.SessionKey}] = grant
	return grant, nil
}

func (m *MemoryStore) CreateLimitOrder(ctx context.Context, arg CreateLimitOrderParams) (LimitOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	orderID := m.orderCounters[arg.UserAddress]
	m.orderCounters[arg.UserAddress] = orderID + 1

	order := LimitOrder{
		UserAddress: arg.UserAddress,
		OrderID:     orderID,
		TokenIn:     arg.TokenIn,
		TokenOut:    arg.TokenOut,
		AmountIn:    new(big.Int).Set(arg.AmountIn),
		LimitPrice:  arg.LimitPrice,
		IsBuy:       arg.IsBuy,
		IsActive:    true,
		ExpiresAt:   arg.ExpiresAt,
		CreatedAt:   time.Now(),
	}
	m.orders[orderKey{user: arg.UserAddress, id: orderID}] = order
	return order, nil
}

func (m *MemoryStore) GetLimitOrder(ctx context.Context, arg GetLimitOrderParams) (LimitOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	order, ok := m.orders[orderKey{user: arg.UserAddress, id: arg.OrderID}]
	if !ok {
		return LimitOrder{}, ErrNotFound
	}
	return order, nil
}

func (m *MemoryStore) ListLimitOrdersByUser(ctx context.Context, userAddress string) ([]LimitOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []LimitOrder
	for key, order := range m.orders {
		if key.user == userAddress {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].OrderID < orders[j].OrderID })
	return orders, nil
}

func (m *MemoryStore) DeactivateLimitOrder(ctx context.Context, arg DeactivateLimitOrderParams) (LimitOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := orderKey{user: arg.UserAddress, id: arg.OrderID}
	order, ok := m.orders[key]
	if !ok {
		return LimitOrder{}, ErrNotFound
	}
	order.IsActive = false
	m.orders[key] = order
	return order, nil
}

func (m *MemoryStore) CreateBridgeAttempt(ctx context.Context, arg CreateBridgeAttemptParams) (BridgeAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	attempt := BridgeAttempt{
		ID:            uuid.New(),
		UserAddress:   arg.UserAddress,
		CallerAddress: arg.CallerAddress,
		Destination:   arg.Destination,
		Amount:        new(big.Int).Set(arg.Amount),
		Fee:           new(big.Int).Set(arg.Fee),
		Status:        arg.Status,
		FailureReason: arg.FailureReason,
		Receipt:       arg.Receipt,
		CreatedAt:     time.Now(),
	}
	m.attempts = append(m.attempts, attempt)
	return attempt, nil
}

func (m *MemoryStore) ListBridgeAttemptsByUser(ctx context.Context, userAddress string) ([]BridgeAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var attempts []BridgeAttempt
	for _, attempt := range m.attempts {
		if attempt.UserAddress == userAddress {
			attempts = append(attempts, attempt)
		}
	}
	return attempts, nil
}

func (m *MemoryStore) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	event := Event{
		ID:          uuid.New(),
		EventType:   arg.EventType,
		UserAddress: arg.UserAddress,
		Payload:     arg.Payload,
		CreatedAt:   time.Now(),
	}
	m.events = append(m.events, event)
	return event, nil
}

func (m *MemoryStore) ListEventsByUser(ctx context.Context, userAddress string) ([]Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var events []Event
	for _, event := range m.events {
		if event.UserAddress == userAddress {
			events = append(events, event)
		}
	}
	return events, nil
}
