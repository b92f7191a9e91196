package access

import (
	"docvault/src/outbox"

	"gorm.io/gorm"
)

func Build(db *gorm.DB, identities IdentityStore, documents DocumentStore, resolver IdentityResolver, events outbox.Recorder) *Handler {
	repo := NewRepository(db)
	service := NewService(repo, identities, documents, events)
	return NewHandler(service, resolver)
}
