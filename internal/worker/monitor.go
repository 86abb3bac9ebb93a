package worker

import (
	"context"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/services"
)

// task is one unit of monitor work: a bridge check for a user, or an
// execution attempt for one of their orders.
type task struct {
	userAddress string
	orderID     int64
	isOrder     bool
}

// Monitor is the 24/7 session runner: it polls the trigger and price
// conditions for watched users and fires executions when they are met.
// The services stay poller-agnostic; all scheduling lives here.
type Monitor struct {
	bridge  *services.BridgeService
	trigger *services.TriggerService
	orders  *services.OrderService
	alerts  *services.AlertService

	pollInterval time.Duration
	workerCount  int
	// Fee payment attached to automated bridge executions, in wei.
	maxFee *big.Int

	tasks  chan task
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	// Watchlist and circuit breaker state.
	mu                  sync.Mutex
	watchedUsers        map[string]struct{}
	watchedOrders       map[string][]int64
	circuitOpen         bool
	consecutiveFailures int
	failureThreshold    int
	resetTimeout        time.Duration
	lastFailureTime     time.Time
}

// Config controls the monitor's polling and worker pool.
type Config struct {
	PollInterval time.Duration
	WorkerCount  int
	MaxFee       *big.Int
}

// NewMonitor creates a monitor. Nothing runs until Start.
func NewMonitor(
	bridge *services.BridgeService,
	trigger *services.TriggerService,
	orders *services.OrderService,
	alerts *services.AlertService,
	cfg Config,
) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &Monitor{
		bridge:           bridge,
		trigger:          trigger,
		orders:           orders,
		alerts:           alerts,
		pollInterval:     cfg.PollInterval,
		workerCount:      cfg.WorkerCount,
		maxFee:           cfg.MaxFee,
		tasks:            make(chan task, 100),
		ctx:              ctx,
		cancel:           cancel,
		watchedUsers:     make(map[string]struct{}),
		watchedOrders:    make(map[string][]int64),
		failureThreshold: 3,
		resetTimeout:     5 * time.Minute,
	}
}

// WatchUser adds a user to the bridge polling watchlist.
func (m *Monitor) WatchUser(userAddress string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchedUsers[userAddress] = struct{}{}
}

// UnwatchUser removes a user from the bridge polling watchlist.
func (m *Monitor) UnwatchUser(userAddress string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.watchedUsers, userAddress)
}

// WatchOrder adds an order to the execution watchlist.
func (m *Monitor) WatchOrder(userAddress string, orderID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watchedOrders[userAddress] = append(m.watchedOrders[userAddress], orderID)
}

// Start launches the poll loop and the worker pool.
func (m *Monitor) Start() {
	logger.Info("Starting monitor",
		zap.Int("worker_count", m.workerCount),
		zap.Duration("poll_interval", m.pollInterval))

	for i := 0; i < m.workerCount; i++ {
		workerID := i
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for {
				select {
				case <-m.ctx.Done():
					logger.Debug("Monitor worker stopped", zap.Int("worker_id", workerID))
					return
				case t := <-m.tasks:
					m.process(t)
				}
			}
		}()
	}

	m.wg.Add(1)
	go m.pollLoop()
}

// Stop shuts the monitor down and waits for in-flight work.
func (m *Monitor) Stop() {
	logger.Info("Stopping monitor")
	m.cancel()
	m.wg.Wait()
	logger.Info("Monitor stopped")
}

func (m *Monitor) pollLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			m.enqueueRound()
		}
	}
}

func (m *Monitor) enqueueRound() {
	m.mu.Lock()
	if m.circuitOpen {
		if time.Since(m.lastFailureTime) < m.resetTimeout {
			m.mu.Unlock()
			return
		}
		logger.Info("Circuit breaker reset timeout elapsed, resuming polling")
		m.circuitOpen = false
		m.consecutiveFailures = 0
	}

	round := make([]task, 0, len(m.watchedUsers))
	for user := range m.watchedUsers {
		round = append(round, task{userAddress: user})
	}
	for user, orderIDs := range m.watchedOrders {
		for _, id := range orderIDs {
			round = append(round, task{userAddress: user, orderID: id, isOrder: true})
		}
	}
	m.mu.Unlock()

	for _, t := range round {
		select {
		case m.tasks <- t:
		case <-m.ctx.Done():
			return
		default:
			logger.Warn("Monitor task queue full, skipping task",
				zap.String("user_address", t.userAddress))
		}
	}
}

func (m *Monitor) process(t task) {
	ctx, cancel := context.WithTimeout(m.ctx, 60*time.Second)
	defer cancel()

	var err error
	if t.isOrder {
		err = m.processOrder(ctx, t)
	} else {
		err = m.processBridge(ctx, t)
	}
	if err == nil {
		m.recordSuccess()
		return
	}
	m.classify(t, err)
}

func (m *Monitor) processBridge(ctx context.Context, t task) error {
	result, err := m.trigger.Check(ctx, t.userAddress)
	if err != nil {
		return err
	}
	if !result.ShouldTrigger {
		return nil
	}

	execution, err := m.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   t.userAddress,
		CallerAddress: t.userAddress,
		PaidFee:       m.maxFee,
	})
	if err != nil {
		return err
	}

	logger.Info("Monitor executed bridge",
		zap.String("user_address", t.userAddress),
		zap.String("receipt", execution.Receipt))
	return nil
}

func (m *Monitor) processOrder(ctx context.Context, t task) error {
	ok, err := m.orders.CanExecute(ctx, t.userAddress, t.orderID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	result, err := m.orders.ExecuteLimitOrder(ctx, t.userAddress, t.userAddress, t.orderID)
	if err != nil {
		return err
	}

	m.unwatchOrder(t.userAddress, t.orderID)
	logger.Info("Monitor executed order",
		zap.String("user_address", t.userAddress),
		zap.Int64("order_id", t.orderID),
		zap.Float64("price", result.Price))
	return nil
}

// classify routes a failure by its error kind: preconditions wait for
// the next round, validation and authorization failures drop the task
// from the watchlist, external failures count toward the breaker.
func (m *Monitor) classify(t task, err error) {
	switch services.Kind(err) {
	case services.KindPrecondition:
		logger.Debug("Condition not ready, will retry",
			zap.String("user_address", t.userAddress),
			zap.Error(err))

	case services.KindValidation, services.KindAuthorization:
		logger.Warn("Dropping task after non-retryable failure",
			zap.String("user_address", t.userAddress),
			zap.Bool("is_order", t.isOrder),
			zap.Error(err))
		if t.isOrder {
			m.unwatchOrder(t.userAddress, t.orderID)
		} else {
			m.UnwatchUser(t.userAddress)
		}

	case services.KindExternal:
		m.recordFailure(t, err)

	default:
		logger.Error("Monitor task failed",
			zap.String("user_address", t.userAddress),
			zap.Error(err))
	}
}

func (m *Monitor) recordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consecutiveFailures = 0
}

func (m *Monitor) recordFailure(t task, err error) {
	m.mu.Lock()
	m.consecutiveFailures++
	m.lastFailureTime = time.Now()
	tripped := !m.circuitOpen && m.consecutiveFailures >= m.failureThreshold
	if tripped {
		m.circuitOpen = true
	}
	failures := m.consecutiveFailures
	m.mu.Unlock()

	logger.Warn("External dependency failure",
		zap.String("user_address", t.userAddress),
		zap.Int("consecutive_failures", failures),
		zap.Error(err))

	if tripped {
		logger.Warn("Opening circuit breaker",
			zap.Int("failure_count", failures),
			zap.Int("threshold", m.failureThreshold))
		m.alerts.Notify(m.ctx, services.AlertParams{
			Subject:     "Monitor circuit breaker opened",
			UserAddress: t.userAddress,
			Detail:      "repeated external dependency failures, polling paused",
			Err:         err,
		})
	}
}

func (m *Monitor) unwatchOrder(userAddress string, orderID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.watchedOrders[userAddress]
	for i, id := range ids {
		if id == orderID {
			m.watchedOrders[userAddress] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(m.watchedOrders[userAddress]) == 0 {
		delete(m.watchedOrders, userAddress)
	}
}
