package outbox

import (
	"context"
	"encoding/json"

	"docvault/pkg/logger"

	"github.com/google/uuid"
)

// Recorder stores a domain event for later publication. Recording never fails
// the calling operation.
type Recorder interface {
	Record(ctx context.Context, eventType string, aggregateId uuid.UUID, payload any)
}

type EventRecorder struct {
	repository OutboxRepository
}

func NewEventRecorder(repository OutboxRepository) *EventRecorder {
	return &EventRecorder{repository: repository}
}

func (er *EventRecorder) Record(ctx context.Context, eventType string, aggregateId uuid.UUID, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Default().Errorf(err, "Could not encode %s event", eventType)
		return
	}

	if _, err := er.repository.NewEvent(ctx, eventType, aggregateId, string(body)); err != nil {
		logger.Default().Errorf(err, "Could not store %s event for %s", eventType, aggregateId)
	}
}

type NopRecorder struct{}

func (NopRecorder) Record(context.Context, string, uuid.UUID, any) {}
