package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessRequestStatus string

const (
	AccessRequestPending  AccessRequestStatus = "pending"
	AccessRequestApproved AccessRequestStatus = "approved"
	AccessRequestRejected AccessRequestStatus = "rejected"
)

func (s AccessRequestStatus) IsTerminal() bool {
	return s == AccessRequestApproved || s == AccessRequestRejected
}

// AccessRequest asks the owner (To) of Document to let From see it.
// idx_access_requests_pending allows a single pending row per triple while
// any number of decided rows may coexist.
type AccessRequest struct {
	Id         uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	FromId     uuid.UUID           `gorm:"type:uuid;not null;index:idx_access_requests_from;uniqueIndex:idx_access_requests_pending,where:status = 'pending'" json:"from_id"`
	From       *Identity           `gorm:"foreignKey:FromId" json:"from,omitempty"`
	ToId       uuid.UUID           `gorm:"type:uuid;not null;index:idx_access_requests_to;uniqueIndex:idx_access_requests_pending,where:status = 'pending'" json:"to_id"`
	To         *Identity           `gorm:"foreignKey:ToId" json:"to,omitempty"`
	DocumentId uuid.UUID           `gorm:"type:uuid;not null;index:idx_access_requests_document;uniqueIndex:idx_access_requests_pending,where:status = 'pending'" json:"document_id"`
	Document   *Document           `gorm:"foreignKey:DocumentId" json:"document,omitempty"`
	Status     AccessRequestStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	CreatedAt  time.Time           `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (ar *AccessRequest) BeforeCreate(tx *gorm.DB) error {
	if ar.Id == uuid.Nil {
		ar.Id = uuid.New()
	}
	if ar.Status == "" {
		ar.Status = AccessRequestPending
	}
	return nil
}

// AccessRequestView exposes both parties as summaries and only the
// document's name, never its locators.
type AccessRequestView struct {
	Id        uuid.UUID           `json:"id"`
	Status    AccessRequestStatus `json:"status"`
	From      *IdentitySummary    `json:"from"`
	To        *IdentitySummary    `json:"to"`
	Document  *RequestedDocument  `json:"document"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type RequestedDocument struct {
	Id       uuid.UUID `json:"id"`
	FileName string    `json:"file_name"`
}

func (ar AccessRequest) View() AccessRequestView {
	view := AccessRequestView{
		Id:        ar.Id,
		Status:    ar.Status,
		From:      ar.From.Summary(),
		To:        ar.To.Summary(),
		Document:  &RequestedDocument{Id: ar.DocumentId},
		CreatedAt: ar.CreatedAt,
		UpdatedAt: ar.UpdatedAt,
	}
	if ar.Document != nil {
		view.Document.FileName = ar.Document.FileName
	}
	return view
}
