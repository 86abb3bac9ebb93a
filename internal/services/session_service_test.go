package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autobridge/autobridge-api/internal/services"
	"github.com/autobridge/autobridge-api/internal/store"
)

func newSessionService(t *testing.T) *services.SessionService {
	t.Helper()
	memStore := store.NewMemoryStore()
	events := services.NewEventService(memStore, nil)
	return services.NewSessionService(memStore, events)
}

func TestSessionService_Authorize(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	tests := []struct {
		name        string
		userAddress string
		sessionKey  string
		wantErr     error
	}{
		{
			name:        "valid grant",
			userAddress: userAddr,
			sessionKey:  sessionAddr,
		},
		{
			name:        "empty session key",
			userAddress: userAddr,
			sessionKey:  "",
			wantErr:     services.ErrInvalidSession,
		},
		{
			name:        "zero address session key",
			userAddress: userAddr,
			sessionKey:  "0x0000000000000000000000000000000000000000",
			wantErr:     services.ErrInvalidSession,
		},
		{
			name:        "self authorization",
			userAddress: userAddr,
			sessionKey:  userAddr,
			wantErr:     services.ErrSelfAuthorization,
		},
		{
			name:        "self authorization differs only in case",
			userAddress: "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
			sessionKey:  "0xABCDEFABCDEFABCDEFABCDEFABCDEFABCDEFABCD",
			wantErr:     services.ErrSelfAuthorization,
		},
		{
			name:        "invalid user address",
			userAddress: "bogus",
			sessionKey:  sessionAddr,
			wantErr:     services.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Authorize(ctx, tt.userAddress, tt.sessionKey)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			authorized, err := service.IsAuthorized(ctx, tt.userAddress, tt.sessionKey)
			require.NoError(t, err)
			assert.True(t, authorized)
		})
	}
}

func TestSessionService_Authorize_Idempotent(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))
	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))

	authorized, err := service.IsAuthorized(ctx, userAddr, sessionAddr)
	require.NoError(t, err)
	assert.True(t, authorized)
}

func TestSessionService_Revoke(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))
	require.NoError(t, service.Revoke(ctx, userAddr, sessionAddr))

	authorized, err := service.IsAuthorized(ctx, userAddr, sessionAddr)
	require.NoError(t, err)
	assert.False(t, authorized)

	// A second revoke is a caller bug, not a no-op.
	err = service.Revoke(ctx, userAddr, sessionAddr)
	assert.ErrorIs(t, err, services.ErrNotAuthorized)
}

func TestSessionService_Revoke_NeverGranted(t *testing.T) {
	service := newSessionService(t)

	err := service.Revoke(context.Background(), userAddr, sessionAddr)
	assert.ErrorIs(t, err, services.ErrNotAuthorized)
}

func TestSessionService_GrantsAreIndependent(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))
	require.NoError(t, service.Authorize(ctx, otherAddr, sessionAddr))

	require.NoError(t, service.Revoke(ctx, userAddr, sessionAddr))

	// Revoking one user's grant leaves the other user's grant for the
	// same session key intact.
	authorized, err := service.IsAuthorized(ctx, otherAddr, sessionAddr)
	require.NoError(t, err)
	assert.True(t, authorized)

	authorized, err = service.IsAuthorized(ctx, userAddr, sessionAddr)
	require.NoError(t, err)
	assert.False(t, authorized)
}

func TestSessionService_IsAuthorized_UnknownPair(t *testing.T) {
	service := newSessionService(t)

	authorized, err := service.IsAuthorized(context.Background(), userAddr, sessionAddr)
	require.NoError(t, err)
	assert.False(t, authorized)
}

func TestSessionService_ReauthorizeAfterRevoke(t *testing.T) {
	service := newSessionService(t)
	ctx := context.Background()

	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))
	require.NoError(t, service.Revoke(ctx, userAddr, sessionAddr))
	require.NoError(t, service.Authorize(ctx, userAddr, sessionAddr))

	authorized, err := service.IsAuthorized(ctx, userAddr, sessionAddr)
	require.NoError(t, err)
	assert.True(t, authorized)
}
