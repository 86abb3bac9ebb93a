package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/client/transport"
	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/mocks"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

type bridgeFixture struct {
	bridge    *services.BridgeService
	ledger    *services.LedgerService
	sessions  *services.SessionService
	gasOracle *oracle.FixedOracle
	transport *mocks.MockTransport
	payout    *mocks.MockSender
	store     *store.MemoryStore
	config    services.BridgeConfig
}

func newBridgeFixture(t *testing.T, ctrl *gomock.Controller) *bridgeFixture {
	t.Helper()

	memStore := store.NewMemoryStore()
	events := services.NewEventService(memStore, nil)
	locks := services.NewAccountLocks()
	payoutSender := mocks.NewMockSender(ctrl)
	ledger := services.NewLedgerService(memStore, payoutSender, events, locks)
	sessions := services.NewSessionService(memStore, events)
	gasOracle := oracle.NewFixedOracle(50)
	trigger := services.NewTriggerService(ledger, gasOracle, 0)
	mockTransport := mocks.NewMockTransport(ctrl)

	config := services.BridgeConfig{
		Destination:    40161,
		TransferAmount: wei("100000000000000000"), // 0.1 ether
		ActionTag:      constants.ActionTagBridge,
	}
	bridge := services.NewBridgeService(
		memStore, trigger, sessions, ledger,
		mockTransport, payoutSender, events, locks, config,
	)

	return &bridgeFixture{
		bridge:    bridge,
		ledger:    ledger,
		sessions:  sessions,
		gasOracle: gasOracle,
		transport: mockTransport,
		payout:    payoutSender,
		store:     memStore,
		config:    config,
	}
}

// arm sets a threshold below the oracle reading and funds the user with
// n transfer amounts, so an execution is ready to fire.
func (f *bridgeFixture) arm(t *testing.T, ctx context.Context, transfers int64) {
	t.Helper()
	require.NoError(t, f.ledger.SetThreshold(ctx, userAddr, 30))
	funding := new(big.Int).Mul(f.config.TransferAmount, big.NewInt(transfers))
	_, err := f.ledger.Deposit(ctx, userAddr, "", funding)
	require.NoError(t, err)
}

func (f *bridgeFixture) expectQuote(fee *big.Int) {
	f.transport.EXPECT().
		Quote(gomock.Any(), f.config.Destination, gomock.Any()).
		Return(transport.Quote{NativeFee: fee, SecondaryFee: new(big.Int)}, nil)
}

func TestBridgeService_Execute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 2)

	fee := wei("5000")
	f.expectQuote(fee)
	f.transport.EXPECT().
		Send(gomock.Any(), f.config.Destination, gomock.Any(), fee).
		Return("receipt-1", nil)

	result, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       fee,
	})
	require.NoError(t, err)
	assert.Equal(t, "receipt-1", result.Receipt)
	assert.Equal(t, f.config.TransferAmount, result.Amount)
	assert.Zero(t, result.Refund.Sign())

	// Exactly one transfer amount left the deposit.
	balance, err := f.ledger.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, f.config.TransferAmount, balance)

	attempts, err := f.bridge.ListAttempts(ctx, userAddr)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, constants.StatusInitiated, attempts[0].Status)
	assert.Equal(t, "receipt-1", attempts[0].Receipt)
}

func TestBridgeService_Execute_UnauthorizedCaller(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)

	_, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: sessionAddr,
		PaidFee:       wei("5000"),
	})
	assert.ErrorIs(t, err, services.ErrCallerNotAuthorized)

	// Nothing was debited.
	balance, err := f.ledger.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, f.config.TransferAmount, balance)
}

func TestBridgeService_Execute_AuthorizedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)
	require.NoError(t, f.sessions.Authorize(ctx, userAddr, sessionAddr))

	fee := wei("5000")
	f.expectQuote(fee)
	f.transport.EXPECT().
		Send(gomock.Any(), f.config.Destination, gomock.Any(), fee).
		Return("receipt-2", nil)

	result, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: sessionAddr,
		PaidFee:       fee,
	})
	require.NoError(t, err)
	assert.Equal(t, "receipt-2", result.Receipt)
}

func TestBridgeService_Execute_RevokedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)
	require.NoError(t, f.sessions.Authorize(ctx, userAddr, sessionAddr))
	require.NoError(t, f.sessions.Revoke(ctx, userAddr, sessionAddr))

	_, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: sessionAddr,
		PaidFee:       wei("5000"),
	})
	assert.ErrorIs(t, err, services.ErrCallerNotAuthorized)
}

func TestBridgeService_Execute_TriggerNotMet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)
	f.gasOracle.Set(10) // below the threshold of 30

	_, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       wei("5000"),
	})
	assert.ErrorIs(t, err, services.ErrTriggerConditionNotMet)

	balance, err := f.ledger.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, f.config.TransferAmount, balance)
}

func TestBridgeService_Execute_NoThresholdSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	_, err := f.ledger.Deposit(ctx, userAddr, "", f.config.TransferAmount)
	require.NoError(t, err)

	_, err = f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       wei("5000"),
	})
	assert.ErrorIs(t, err, services.ErrTriggerConditionNotMet)
}

func TestBridgeService_Execute_InsufficientDeposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	require.NoError(t, f.ledger.SetThreshold(ctx, userAddr, 30))
	// Fund just below one transfer amount.
	funding := new(big.Int).Sub(f.config.TransferAmount, big.NewInt(1))
	_, err := f.ledger.Deposit(ctx, userAddr, "", funding)
	require.NoError(t, err)

	_, err = f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       wei("5000"),
	})
	assert.ErrorIs(t, err, services.ErrInsufficientDeposit)
}

func TestBridgeService_Execute_InsufficientFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)

	f.expectQuote(wei("5000"))

	_, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       wei("4999"),
	})
	assert.ErrorIs(t, err, services.ErrInsufficientFee)

	// Fee validation happens before the debit.
	balance, err := f.ledger.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, f.config.TransferAmount, balance)
}

func TestBridgeService_Execute_TransportFailureRestoresBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)

	fee := wei("5000")
	f.expectQuote(fee)
	f.transport.EXPECT().
		Send(gomock.Any(), f.config.Destination, gomock.Any(), fee).
		Return("", errors.New("endpoint rejected message"))

	_, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       fee,
	})
	assert.ErrorIs(t, err, services.ErrTransportFailure)

	// The debit was rolled back.
	balance, err := f.ledger.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, f.config.TransferAmount, balance)

	// The failure left an audit record.
	attempts, err := f.bridge.ListAttempts(ctx, userAddr)
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, constants.StatusFailed, attempts[0].Status)
	assert.Contains(t, attempts[0].FailureReason, "endpoint rejected")
}

func TestBridgeService_Execute_RefundsExcessFee(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	f.arm(t, ctx, 1)

	fee := wei("5000")
	paid := wei("8000")
	f.expectQuote(fee)
	f.transport.EXPECT().
		Send(gomock.Any(), f.config.Destination, gomock.Any(), fee).
		Return("receipt-3", nil)
	f.payout.EXPECT().
		Send(gomock.Any(), userAddr, constants.NativeToken, wei("3000")).
		Return("0xrefund", nil)

	result, err := f.bridge.Execute(ctx, services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       paid,
	})
	require.NoError(t, err)
	assert.Equal(t, wei("3000"), result.Refund)
}

func TestBridgeService_Execute_ExactlyOncePerFunding(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBridgeFixture(t, ctrl)
	ctx := context.Background()
	// Funding covers exactly one execution.
	f.arm(t, ctx, 1)

	fee := wei("5000")
	f.expectQuote(fee)
	f.transport.EXPECT().
		Send(gomock.Any(), f.config.Destination, gomock.Any(), fee).
		Return("receipt-4", nil)

	params := services.ExecuteParams{
		UserAddress:   userAddr,
		CallerAddress: userAddr,
		PaidFee:       fee,
	}

	_, err := f.bridge.Execute(ctx, params)
	require.NoError(t, err)

	// The second attempt finds an empty deposit before quoting anything.
	_, err = f.bridge.Execute(ctx, params)
	assert.ErrorIs(t, err, services.ErrInsufficientDeposit)
}
