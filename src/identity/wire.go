package identity

import (
	"docvault/src/auth"
	"docvault/src/outbox"

	"gorm.io/gorm"
)

func Build(db *gorm.DB, verifier SignatureVerifier, tokens TokenIssuer, revoked auth.RevocationList, cfg auth.AuthConfig, events outbox.Recorder) *Handler {
	repo := NewRepository(db)
	service := NewService(repo, verifier, events)
	return NewHandler(service, tokens, revoked, cfg)
}
