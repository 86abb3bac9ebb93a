package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/autobridge/autobridge-api/internal/client/oracle"
	"github.com/autobridge/autobridge-api/internal/mocks"
	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

func newTriggerFixture(t *testing.T, gasOracle oracle.Oracle, maxAge time.Duration) (*services.TriggerService, *services.LedgerService) {
	t.Helper()
	memStore := store.NewMemoryStore()
	events := services.NewEventService(memStore, nil)
	ledger := services.NewLedgerService(memStore, nil, events, services.NewAccountLocks())
	return services.NewTriggerService(ledger, gasOracle, maxAge), ledger
}

func TestTriggerService_Check(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		threshold   float64
		reading     float64
		wantTrigger bool
	}{
		{
			name:        "reading above threshold triggers",
			threshold:   30,
			reading:     45.2,
			wantTrigger: true,
		},
		{
			name:        "reading equal to threshold triggers",
			threshold:   30,
			reading:     30,
			wantTrigger: true,
		},
		{
			name:        "reading below threshold does not trigger",
			threshold:   30,
			reading:     29.999,
			wantTrigger: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gasOracle := oracle.NewFixedOracle(tt.reading)
			trigger, ledger := newTriggerFixture(t, gasOracle, 0)
			require.NoError(t, ledger.SetThreshold(ctx, userAddr, tt.threshold))

			result, err := trigger.Check(ctx, userAddr)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTrigger, result.ShouldTrigger)
			assert.Equal(t, tt.reading, result.Reading)
			assert.Equal(t, tt.threshold, result.Threshold)
			assert.True(t, result.ThresholdSet)
		})
	}
}

func TestTriggerService_Check_UnsetThresholdNeverTriggers(t *testing.T) {
	gasOracle := oracle.NewFixedOracle(1000)
	trigger, _ := newTriggerFixture(t, gasOracle, 0)

	result, err := trigger.Check(context.Background(), userAddr)
	require.NoError(t, err)
	assert.False(t, result.ShouldTrigger)
	assert.False(t, result.ThresholdSet)
}

func TestTriggerService_Check_OracleUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOracle := mocks.NewMockOracle(ctrl)
	trigger, ledger := newTriggerFixture(t, mockOracle, 0)
	ctx := context.Background()
	require.NoError(t, ledger.SetThreshold(ctx, userAddr, 30))

	mockOracle.EXPECT().
		Read(ctx).
		Return(oracle.Reading{}, errors.New("connection refused"))

	_, err := trigger.Check(ctx, userAddr)
	assert.ErrorIs(t, err, services.ErrOracleUnavailable)
}

func TestTriggerService_Check_StaleReading(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOracle := mocks.NewMockOracle(ctrl)
	trigger, ledger := newTriggerFixture(t, mockOracle, 5*time.Minute)
	ctx := context.Background()
	require.NoError(t, ledger.SetThreshold(ctx, userAddr, 30))

	mockOracle.EXPECT().
		Read(ctx).
		Return(oracle.Reading{Value: 50, ObservedAt: time.Now().Add(-10 * time.Minute)}, nil)

	_, err := trigger.Check(ctx, userAddr)
	assert.ErrorIs(t, err, services.ErrStaleReading)
}

func TestTriggerService_Check_FreshReadingWithinMaxAge(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOracle := mocks.NewMockOracle(ctrl)
	trigger, ledger := newTriggerFixture(t, mockOracle, 5*time.Minute)
	ctx := context.Background()
	require.NoError(t, ledger.SetThreshold(ctx, userAddr, 30))

	mockOracle.EXPECT().
		Read(ctx).
		Return(oracle.Reading{Value: 50, ObservedAt: time.Now().Add(-1 * time.Minute)}, nil)

	result, err := trigger.Check(ctx, userAddr)
	require.NoError(t, err)
	assert.True(t, result.ShouldTrigger)
}

func TestTriggerService_Check_IsReadOnly(t *testing.T) {
	gasOracle := oracle.NewFixedOracle(45)
	trigger, ledger := newTriggerFixture(t, gasOracle, 0)
	ctx := context.Background()
	require.NoError(t, ledger.SetThreshold(ctx, userAddr, 30))

	// Repeated checks keep answering from fresh reads without changing
	// any state.
	for i := 0; i < 3; i++ {
		result, err := trigger.Check(ctx, userAddr)
		require.NoError(t, err)
		assert.True(t, result.ShouldTrigger)
	}

	gasOracle.Set(10)
	result, err := trigger.Check(ctx, userAddr)
	require.NoError(t, err)
	assert.False(t, result.ShouldTrigger)
}
