package outbox

import (
	"context"
	"time"

	"docvault/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxRetries = 5

type OutboxRepository interface {
	GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error)
	NewEvent(ctx context.Context, eventType string, aggregateId uuid.UUID, payload string) (uuid.UUID, error)
	GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error
	UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error
}

type outboxRepository struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (or *outboxRepository) GetEvent(ctx context.Context, eventId uuid.UUID) (model.OutboxEvent, error) {
	var event model.OutboxEvent
	result := or.db.WithContext(ctx).First(&event, "event_id = ?", eventId)
	return event, result.Error
}

func (or *outboxRepository) NewEvent(ctx context.Context, eventType string, aggregateId uuid.UUID, payload string) (uuid.UUID, error) {
	event := model.OutboxEvent{
		EventId:     uuid.New(),
		EventType:   eventType,
		AggregateId: aggregateId,
		Payload:     payload,
	}

	result := or.db.WithContext(ctx).Create(&event)
	return event.EventId, result.Error
}

func (or *outboxRepository) GetUnprocessedEvents(ctx context.Context, limit int) ([]model.OutboxEvent, error) {
	var events []model.OutboxEvent
	result := or.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&events)
	return events, result.Error
}

func (or *outboxRepository) MarkEventAsProcessed(ctx context.Context, eventId uuid.UUID) error {
	now := time.Now().UTC()
	return or.db.WithContext(ctx).
		Model(&model.OutboxEvent{}).
		Where("event_id = ?", eventId).
		Updates(map[string]interface{}{"processed": true, "processed_at": &now}).Error
}

// UpdateRetryValue counts a failed publish. Events that keep failing are
// parked as processed and have to be looked at manually.
func (or *outboxRepository) UpdateRetryValue(ctx context.Context, eventId uuid.UUID) error {
	db := or.db.WithContext(ctx)

	err := db.Model(&model.OutboxEvent{}).
		Where("event_id = ?", eventId).
		Update("retry", gorm.Expr("retry + 1")).Error
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return db.Model(&model.OutboxEvent{}).
		Where("event_id = ? AND retry >= ?", eventId, maxRetries).
		Updates(map[string]interface{}{"processed": true, "processed_at": &now}).Error
}
