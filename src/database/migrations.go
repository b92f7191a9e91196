package database

import (
	"docvault/src/model"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Identity{},
		&model.Document{},
		&model.AccessRequest{},
		&model.OutboxEvent{},
	)
}
