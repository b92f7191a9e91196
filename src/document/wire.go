package document

import (
	"docvault/src/outbox"

	"gorm.io/gorm"
)

func Build(db *gorm.DB, identities IdentityStore, objects ObjectStore, contents ContentStore, access AccessChecker, resolver IdentityResolver, events outbox.Recorder, opts ...Option) *Handler {
	repo := NewRepository(db)
	service := NewService(repo, identities, objects, contents, access, events, opts...)
	return NewHandler(service, resolver)
}
