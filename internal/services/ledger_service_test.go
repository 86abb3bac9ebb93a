package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/mocks"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

func init() {
	logger.InitLogger("test")
}

const (
	userAddr    = "0x1111111111111111111111111111111111111111"
	otherAddr   = "0x2222222222222222222222222222222222222222"
	sessionAddr = "0x3333333333333333333333333333333333333333"
)

func newLedgerService(t *testing.T, payoutSender *mocks.MockSender) (*services.LedgerService, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	events := services.NewEventService(memStore, nil)
	locks := services.NewAccountLocks()
	return services.NewLedgerService(memStore, payoutSender, events, locks), memStore
}

func wei(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("bad wei literal: " + s)
	}
	return v
}

func TestLedgerService_SetThreshold(t *testing.T) {
	service, _ := newLedgerService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		userAddress string
		value       float64
		wantErr     error
	}{
		{
			name:        "valid threshold",
			userAddress: userAddr,
			value:       30.5,
		},
		{
			name:        "smallest positive value accepted",
			userAddress: userAddr,
			value:       0.000001,
		},
		{
			name:        "zero rejected",
			userAddress: userAddr,
			value:       0,
			wantErr:     services.ErrInvalidThreshold,
		},
		{
			name:        "negative rejected",
			userAddress: userAddr,
			value:       -1,
			wantErr:     services.ErrInvalidThreshold,
		},
		{
			name:        "invalid address rejected",
			userAddress: "not-an-address",
			value:       10,
			wantErr:     services.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.SetThreshold(ctx, tt.userAddress, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			value, set, err := service.GetThreshold(ctx, tt.userAddress)
			require.NoError(t, err)
			assert.True(t, set)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestLedgerService_SetThreshold_LastWriteWins(t *testing.T) {
	service, _ := newLedgerService(t, nil)
	ctx := context.Background()

	require.NoError(t, service.SetThreshold(ctx, userAddr, 10))
	require.NoError(t, service.SetThreshold(ctx, userAddr, 55))

	value, set, err := service.GetThreshold(ctx, userAddr)
	require.NoError(t, err)
	assert.True(t, set)
	assert.Equal(t, 55.0, value)
}

func TestLedgerService_GetThreshold_Unset(t *testing.T) {
	service, _ := newLedgerService(t, nil)

	value, set, err := service.GetThreshold(context.Background(), userAddr)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Zero(t, value)
}

func TestLedgerService_Deposit(t *testing.T) {
	service, _ := newLedgerService(t, nil)
	ctx := context.Background()

	balance, err := service.Deposit(ctx, userAddr, "", wei("100"))
	require.NoError(t, err)
	assert.Equal(t, wei("100"), balance)

	// Deposits accumulate.
	balance, err = service.Deposit(ctx, userAddr, "", wei("50"))
	require.NoError(t, err)
	assert.Equal(t, wei("150"), balance)

	// Empty token defaults to the native token.
	native, err := service.GetDeposit(ctx, userAddr, constants.NativeToken)
	require.NoError(t, err)
	assert.Equal(t, wei("150"), native)
}

func TestLedgerService_Deposit_ZeroAmount(t *testing.T) {
	service, _ := newLedgerService(t, nil)

	_, err := service.Deposit(context.Background(), userAddr, "", big.NewInt(0))
	assert.ErrorIs(t, err, services.ErrZeroAmount)

	_, err = service.Deposit(context.Background(), userAddr, "", nil)
	assert.ErrorIs(t, err, services.ErrZeroAmount)
}

func TestLedgerService_Deposit_PerTokenBalances(t *testing.T) {
	service, _ := newLedgerService(t, nil)
	ctx := context.Background()

	_, err := service.Deposit(ctx, userAddr, "usdc", wei("1000"))
	require.NoError(t, err)
	_, err = service.Deposit(ctx, userAddr, "weth", wei("7"))
	require.NoError(t, err)

	usdc, err := service.GetDeposit(ctx, userAddr, "usdc")
	require.NoError(t, err)
	assert.Equal(t, wei("1000"), usdc)

	weth, err := service.GetDeposit(ctx, userAddr, "weth")
	require.NoError(t, err)
	assert.Equal(t, wei("7"), weth)

	// Unknown token reads as zero, not an error.
	empty, err := service.GetDeposit(ctx, userAddr, "dai")
	require.NoError(t, err)
	assert.Zero(t, empty.Sign())
}

func TestLedgerService_Withdraw(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payoutSender := mocks.NewMockSender(ctrl)
	service, _ := newLedgerService(t, payoutSender)
	ctx := context.Background()

	_, err := service.Deposit(ctx, userAddr, "", wei("100"))
	require.NoError(t, err)

	payoutSender.EXPECT().
		Send(ctx, userAddr, constants.NativeToken, wei("40")).
		Return("0xtxhash", nil)

	balance, err := service.Withdraw(ctx, userAddr, "", wei("40"))
	require.NoError(t, err)
	assert.Equal(t, wei("60"), balance)
}

func TestLedgerService_Withdraw_InsufficientBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No payout expectation: the balance check must fail first.
	payoutSender := mocks.NewMockSender(ctrl)
	service, _ := newLedgerService(t, payoutSender)
	ctx := context.Background()

	_, err := service.Deposit(ctx, userAddr, "", wei("10"))
	require.NoError(t, err)

	_, err = service.Withdraw(ctx, userAddr, "", wei("11"))
	assert.ErrorIs(t, err, services.ErrInsufficientBalance)

	balance, err := service.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, wei("10"), balance)
}

func TestLedgerService_Withdraw_PayoutFailureLeavesBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	payoutSender := mocks.NewMockSender(ctrl)
	service, _ := newLedgerService(t, payoutSender)
	ctx := context.Background()

	_, err := service.Deposit(ctx, userAddr, "", wei("100"))
	require.NoError(t, err)

	payoutSender.EXPECT().
		Send(ctx, userAddr, constants.NativeToken, wei("100")).
		Return("", errors.New("rpc timeout"))

	_, err = service.Withdraw(ctx, userAddr, "", wei("100"))
	assert.ErrorIs(t, err, services.ErrPayoutFailure)

	balance, err := service.GetDeposit(ctx, userAddr, "")
	require.NoError(t, err)
	assert.Equal(t, wei("100"), balance)
}

func TestLedgerService_PerUserIsolation(t *testing.T) {
	service, _ := newLedgerService(t, nil)
	ctx := context.Background()

	_, err := service.Deposit(ctx, userAddr, "", wei("100"))
	require.NoError(t, err)
	require.NoError(t, service.SetThreshold(ctx, userAddr, 20))

	balance, err := service.GetDeposit(ctx, otherAddr, "")
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())

	_, set, err := service.GetThreshold(ctx, otherAddr)
	require.NoError(t, err)
	assert.False(t, set)
}

func TestLedgerService_StorageErrorWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	events := services.NewEventService(mockQuerier, nil)
	service := services.NewLedgerService(mockQuerier, nil, events, services.NewAccountLocks())

	mockQuerier.EXPECT().
		GetDeposit(gomock.Any(), gomock.Any()).
		Return(store.Deposit{}, errors.New("connection refused"))

	_, err := service.GetDeposit(context.Background(), userAddr, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get deposit")
}
