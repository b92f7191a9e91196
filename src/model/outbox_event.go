package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventDocumentUploaded      = "document.uploaded"
	EventDocumentDeleted       = "document.deleted"
	EventAccessRequestCreated  = "access_request.created"
	EventAccessRequestApproved = "access_request.approved"
	EventAccessRequestRejected = "access_request.rejected"
	EventIdentityDeleted       = "identity.deleted"
)

// OutboxEvent is a domain event waiting to be published to the broker.
type OutboxEvent struct {
	Id          int       `gorm:"primaryKey;autoIncrement"`
	EventId     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	EventType   string    `gorm:"type:varchar(64);not null;index"`
	AggregateId uuid.UUID `gorm:"type:uuid;not null"`
	Payload     string    `gorm:"type:text;not null"`
	Retry       int       `gorm:"not null;default:0"`
	Processed   bool      `gorm:"not null;default:false;index"`
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (oe *OutboxEvent) BeforeCreate(tx *gorm.DB) error {
	if oe.EventId == uuid.Nil {
		oe.EventId = uuid.New()
	}
	return nil
}
