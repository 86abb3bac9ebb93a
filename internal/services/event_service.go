package services

import (
	"context"
	"encoding/json"

	"github.com/autobridge/autobridge-api/internal/client/queue"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/store"
	"go.uber.org/zap"
)

// EventService records observable audit events and optionally fans them
// out to a queue for monitoring consumers. Recording is best-effort: an
// event that fails to persist is logged, never allowed to fail the
// operation that produced it.
type EventService struct {
	queries   store.Querier
	publisher queue.Publisher
	logger    *zap.Logger
}

// NewEventService creates an event service. publisher may be nil when no
// queue is configured.
func NewEventService(queries store.Querier, publisher queue.Publisher) *EventService {
	return &EventService{
		queries:   queries,
		publisher: publisher,
		logger:    logger.Log,
	}
}

// Record persists one event and publishes it if a publisher is wired.
func (s *EventService) Record(ctx context.Context, eventType, userAddress string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal event payload",
			zap.String("event_type", eventType),
			zap.String("user_address", userAddress),
			zap.Error(err))
		return
	}

	if _, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		EventType:   eventType,
		UserAddress: userAddress,
		Payload:     body,
	}); err != nil {
		s.logger.Error("Failed to record event",
			zap.String("event_type", eventType),
			zap.String("user_address", userAddress),
			zap.Error(err))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, eventType, body); err != nil {
			s.logger.Error("Failed to publish event",
				zap.String("event_type", eventType),
				zap.Error(err))
		}
	}
}

// ListEvents returns the recorded events for a user.
func (s *EventService) ListEvents(ctx context.Context, userAddress string) ([]store.Event, error) {
	return s.queries.ListEventsByUser(ctx, userAddress)
}
