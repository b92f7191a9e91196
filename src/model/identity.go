package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identity is a registered wallet. Address is the external login key only;
// every other record references the identity by Id.
type Identity struct {
	Id                        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Address                   string     `gorm:"uniqueIndex;not null" json:"address"`
	Name                      string     `json:"name,omitempty"`
	Email                     string     `json:"email,omitempty"`
	Phone                     string     `json:"phone,omitempty"`
	LastCheckedAccessRequests time.Time  `json:"last_checked_access_requests"`
	Documents                 []Document `gorm:"foreignKey:OwnerId" json:"documents,omitempty"`
	CreatedAt                 time.Time  `json:"registered_at"`
	UpdatedAt                 time.Time  `json:"updated_at"`
}

func (i *Identity) BeforeCreate(tx *gorm.DB) error {
	if i.Id == uuid.Nil {
		i.Id = uuid.New()
	}
	i.Address = NormalizeAddress(i.Address)
	return nil
}

func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IdentitySummary is the public view of a counterparty in listings.
type IdentitySummary struct {
	Id      uuid.UUID `json:"id"`
	Address string    `json:"address"`
	Name    string    `json:"name,omitempty"`
	Email   string    `json:"email,omitempty"`
}

func (i *Identity) Summary() *IdentitySummary {
	if i == nil {
		return nil
	}
	return &IdentitySummary{Id: i.Id, Address: i.Address, Name: i.Name, Email: i.Email}
}
