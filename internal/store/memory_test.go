package store_test

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobridge/autobridge-api/internal/store"
)

const (
	userA = "0x1111111111111111111111111111111111111111"
	userB = "0x2222222222222222222222222222222222222222"
)

func TestMemoryStore_DebitDeposit_Guard(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.CreditDeposit(ctx, store.CreditDepositParams{
		UserAddress: userA,
		Token:       "native",
		Amount:      big.NewInt(100),
	})
	require.NoError(t, err)

	// Overdraft fails and the balance is untouched; the debit never
	// saturates to zero.
	_, err = s.DebitDeposit(ctx, store.DebitDepositParams{
		UserAddress: userA,
		Token:       "native",
		Amount:      big.NewInt(101),
	})
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)

	deposit, err := s.GetDeposit(ctx, store.GetDepositParams{UserAddress: userA, Token: "native"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), deposit.Amount)

	// Debiting the exact balance works.
	deposit, err = s.DebitDeposit(ctx, store.DebitDepositParams{
		UserAddress: userA,
		Token:       "native",
		Amount:      big.NewInt(100),
	})
	require.NoError(t, err)
	assert.Zero(t, deposit.Amount.Sign())

	// Unknown accounts cannot be debited.
	_, err = s.DebitDeposit(ctx, store.DebitDepositParams{
		UserAddress: userB,
		Token:       "native",
		Amount:      big.NewInt(1),
	})
	assert.ErrorIs(t, err, store.ErrInsufficientFunds)
}

func TestMemoryStore_Deposit_ReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.CreditDeposit(ctx, store.CreditDepositParams{
		UserAddress: userA,
		Token:       "native",
		Amount:      big.NewInt(100),
	})
	require.NoError(t, err)

	deposit, err := s.GetDeposit(ctx, store.GetDepositParams{UserAddress: userA, Token: "native"})
	require.NoError(t, err)

	// Mutating the returned amount must not reach the stored balance.
	deposit.Amount.SetInt64(0)

	fresh, err := s.GetDeposit(ctx, store.GetDepositParams{UserAddress: userA, Token: "native"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), fresh.Amount)
}

func TestMemoryStore_CreateLimitOrder_SequentialIDs(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	params := store.CreateLimitOrderParams{
		UserAddress: userA,
		TokenIn:     "usdc",
		TokenOut:    "weth",
		AmountIn:    big.NewInt(100),
		LimitPrice:  1800,
		IsBuy:       true,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}

	for want := int64(0); want < 3; want++ {
		order, err := s.CreateLimitOrder(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, want, order.OrderID)
		assert.True(t, order.IsActive)
	}

	// Counters are per user: a different user starts back at zero.
	params.UserAddress = userB
	order, err := s.CreateLimitOrder(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), order.OrderID)
}

func TestMemoryStore_DeactivateLimitOrder(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	order, err := s.CreateLimitOrder(ctx, store.CreateLimitOrderParams{
		UserAddress: userA,
		TokenIn:     "usdc",
		TokenOut:    "weth",
		AmountIn:    big.NewInt(100),
		LimitPrice:  1800,
		IsBuy:       true,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	deactivated, err := s.DeactivateLimitOrder(ctx, store.DeactivateLimitOrderParams{
		UserAddress: userA,
		OrderID:     order.OrderID,
	})
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	stored, err := s.GetLimitOrder(ctx, store.GetLimitOrderParams{UserAddress: userA, OrderID: order.OrderID})
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	_, err = s.DeactivateLimitOrder(ctx, store.DeactivateLimitOrderParams{
		UserAddress: userA,
		OrderID:     99,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemoryStore_ConcurrentCredits(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreditDeposit(ctx, store.CreditDepositParams{
				UserAddress: userA,
				Token:       "native",
				Amount:      big.NewInt(1),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	deposit, err := s.GetDeposit(ctx, store.GetDepositParams{UserAddress: userA, Token: "native"})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(50), deposit.Amount)
}

func TestMemoryStore_NotFoundSentinels(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()

	_, err := s.GetThreshold(ctx, userA)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetDeposit(ctx, store.GetDepositParams{UserAddress: userA, Token: "native"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetSessionGrant(ctx, store.GetSessionGrantParams{UserAddress: userA, SessionKey: userB})
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.GetLimitOrder(ctx, store.GetLimitOrderParams{UserAddress: userA, OrderID: 0})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
