package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/autobridge/autobridge-api/internal/constants"
	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/store"
	"go.uber.org/zap"
)

// SessionService is the session authorization registry: a direct
// per-(user, session) grant mapping. Grants give execute rights only;
// withdrawals always require the user themselves.
type SessionService struct {
	queries store.Querier
	events  *EventService
	logger  *zap.Logger
}

// NewSessionService creates a new session service.
func NewSessionService(queries store.Querier, events *EventService) *SessionService {
	return &SessionService{
		queries: queries,
		events:  events,
		logger:  logger.Log,
	}
}

// Authorize grants the session key the right to execute for the user.
// Re-authorizing an already-authorized session is not an error; the
// grant timestamp is refreshed.
func (s *SessionService) Authorize(ctx context.Context, userAddress, sessionKey string) error {
	if !helpers.IsAddressValid(userAddress) {
		return ErrInvalidAddress
	}
	if sessionKey == "" || helpers.IsZeroAddress(sessionKey) {
		return ErrInvalidSession
	}
	if helpers.SameAddress(userAddress, sessionKey) {
		return ErrSelfAuthorization
	}

	userAddress = helpers.NormalizeAddress(userAddress)
	sessionKey = helpers.NormalizeAddress(sessionKey)

	if _, err := s.queries.UpsertSessionGrant(ctx, store.UpsertSessionGrantParams{
		UserAddress:  userAddress,
		SessionKey:   sessionKey,
		Authorized:   true,
		AuthorizedAt: time.Now(),
	}); err != nil {
		s.logger.Error("Failed to authorize session",
			zap.String("user_address", userAddress),
			zap.String("session_key", sessionKey),
			zap.Error(err))
		return fmt.Errorf("failed to authorize session: %w", err)
	}

	s.logger.Info("Session authorized",
		zap.String("user_address", userAddress),
		zap.String("session_key", sessionKey))

	s.events.Record(ctx, constants.EventSessionAuthorized, userAddress, map[string]interface{}{
		"session_key": sessionKey,
	})
	return nil
}

// Revoke withdraws a grant. Revoking a session that was never granted
// (or was already revoked) fails with ErrNotAuthorized rather than
// silently succeeding: it usually indicates a caller bug.
func (s *SessionService) Revoke(ctx context.Context, userAddress, sessionKey string) error {
	userAddress = helpers.NormalizeAddress(userAddress)
	sessionKey = helpers.NormalizeAddress(sessionKey)

	grant, err := s.queries.GetSessionGrant(ctx, store.GetSessionGrantParams{
		UserAddress: userAddress,
		SessionKey:  sessionKey,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAuthorized
		}
		return fmt.Errorf("failed to get session grant: %w", err)
	}
	if !grant.Authorized {
		return ErrNotAuthorized
	}

	if _, err := s.queries.UpsertSessionGrant(ctx, store.UpsertSessionGrantParams{
		UserAddress:  userAddress,
		SessionKey:   sessionKey,
		Authorized:   false,
		AuthorizedAt: grant.AuthorizedAt,
	}); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.logger.Info("Session revoked",
		zap.String("user_address", userAddress),
		zap.String("session_key", sessionKey))

	s.events.Record(ctx, constants.EventSessionRevoked, userAddress, map[string]interface{}{
		"session_key": sessionKey,
	})
	return nil
}

// IsAuthorized reports whether the session key currently holds a grant
// for the user. Defaults to false for unknown pairs.
func (s *SessionService) IsAuthorized(ctx context.Context, userAddress, sessionKey string) (bool, error) {
	grant, err := s.queries.GetSessionGrant(ctx, store.GetSessionGrantParams{
		UserAddress: helpers.NormalizeAddress(userAddress),
		SessionKey:  helpers.NormalizeAddress(sessionKey),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get session grant: %w", err)
	}
	return grant.Authorized, nil
}

// GetGrant returns the raw grant record for inspection.
func (s *SessionService) GetGrant(ctx context.Context, userAddress, sessionKey string) (store.SessionGrant, error) {
	grant, err := s.queries.GetSessionGrant(ctx, store.GetSessionGrantParams{
		UserAddress: helpers.NormalizeAddress(userAddress),
		SessionKey:  helpers.NormalizeAddress(sessionKey),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.SessionGrant{}, ErrNotAuthorized
		}
		return store.SessionGrant{}, fmt.Errorf("failed to get session grant: %w", err)
	}
	return grant, nil
}
