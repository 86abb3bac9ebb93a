package worker_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/client/transport"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/mocks"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
	"github.com/autobridge/autobridge-api/internal/worker"
)

func init() {
	logger.InitLogger("test")
}

const monitorUser = "0x4444444444444444444444444444444444444444"

func TestMonitor_ExecutesBridgeWhenTriggered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	memStore := store.NewMemoryStore()
	events := services.NewEventService(memStore, nil)
	locks := services.NewAccountLocks()
	ledger := services.NewLedgerService(memStore, nil, events, locks)
	sessions := services.NewSessionService(memStore, events)
	gasOracle := oracle.NewFixedOracle(50)
	trigger := services.NewTriggerService(ledger, gasOracle, 0)
	mockTransport := mocks.NewMockTransport(ctrl)

	transferAmount := big.NewInt(1000)
	bridge := services.NewBridgeService(memStore, trigger, sessions, ledger,
		mockTransport, nil, events, locks, services.BridgeConfig{
			Destination:    40161,
			TransferAmount: transferAmount,
			ActionTag:      "bridge",
		})
	alerts := services.NewAlertService("", "", "")

	ctx := context.Background()
	require.NoError(t, ledger.SetThreshold(ctx, monitorUser, 30))
	_, err := ledger.Deposit(ctx, monitorUser, "", transferAmount)
	require.NoError(t, err)

	fee := big.NewInt(10)
	sent := make(chan struct{})
	mockTransport.EXPECT().
		Quote(gomock.Any(), uint32(40161), gomock.Any()).
		Return(transport.Quote{NativeFee: fee, SecondaryFee: new(big.Int)}, nil)
	mockTransport.EXPECT().
		Send(gomock.Any(), uint32(40161), gomock.Any(), fee).
		DoAndReturn(func(context.Context, uint32, []byte, *big.Int) (string, error) {
			close(sent)
			return "receipt-monitor", nil
		})

	m := worker.NewMonitor(bridge, trigger, nil, alerts, worker.Config{
		PollInterval: 10 * time.Millisecond,
		WorkerCount:  1,
		MaxFee:       fee,
	})
	m.WatchUser(monitorUser)
	m.Start()
	defer m.Stop()

	select {
	case <-sent:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never executed the bridge")
	}

	// Funding covered exactly one execution; later rounds see the empty
	// deposit as a precondition and keep waiting without more sends.
	assert.Eventually(t, func() bool {
		balance, err := ledger.GetDeposit(ctx, monitorUser, "")
		return err == nil && balance.Sign() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestMonitor_WatchlistLifecycle(t *testing.T) {
	alerts := services.NewAlertService("", "", "")
	m := worker.NewMonitor(nil, nil, nil, alerts, worker.Config{
		PollInterval: time.Hour,
		WorkerCount:  1,
		MaxFee:       big.NewInt(1),
	})

	// Watch/unwatch without Start must be safe.
	m.WatchUser(monitorUser)
	m.WatchOrder(monitorUser, 0)
	m.UnwatchUser(monitorUser)
}
