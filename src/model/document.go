package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner     *Identity `gorm:"foreignKey:OwnerId" json:"owner,omitempty"`
	FileName  string    `gorm:"not null" json:"file_name"`
	Size      int64     `json:"size"`
	ObjectUrl string    `gorm:"not null" json:"object_url"`
	ContentId string    `gorm:"not null;index" json:"content_id"`
	FileHash  string    `gorm:"index" json:"file_hash,omitempty"`
	AnchorTx  string    `json:"anchor_tx,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"uploaded_at"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.Id == uuid.Nil {
		d.Id = uuid.New()
	}
	return nil
}

// DocumentView is the listing shape; the owner is reduced to its summary.
type DocumentView struct {
	Id         uuid.UUID        `json:"id"`
	FileName   string           `json:"file_name"`
	Size       int64            `json:"size"`
	ObjectUrl  string           `json:"object_url"`
	ContentId  string           `json:"content_id"`
	FileHash   string           `json:"file_hash,omitempty"`
	AnchorTx   string           `json:"anchor_tx,omitempty"`
	UploadedAt time.Time        `json:"uploaded_at"`
	Owner      *IdentitySummary `json:"owner,omitempty"`
}

func (d Document) View() DocumentView {
	return DocumentView{
		Id:         d.Id,
		FileName:   d.FileName,
		Size:       d.Size,
		ObjectUrl:  d.ObjectUrl,
		ContentId:  d.ContentId,
		FileHash:   d.FileHash,
		AnchorTx:   d.AnchorTx,
		UploadedAt: d.CreatedAt,
		Owner:      d.Owner.Summary(),
	}
}
