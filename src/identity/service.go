package identity

import (
	"context"
	"fmt"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/auth"
	"docvault/src/model"
	"docvault/src/outbox"
)

var (
	ErrMissingCredentials = reasoncodes.New(reasoncodes.ErrInvalidInput, "address, message and signature are required")
	ErrInvalidAddress     = reasoncodes.New(reasoncodes.ErrInvalidInput, "invalid wallet address")
	ErrMalformedSignature = reasoncodes.New(reasoncodes.ErrInvalidInput, "malformed signature")
	ErrSignatureMismatch  = reasoncodes.New(reasoncodes.ErrUnauthorized, "signature does not match address")
	ErrEmptyProfile       = reasoncodes.New(reasoncodes.ErrInvalidInput, "no profile fields given")
)

type SignatureVerifier interface {
	RecoverAddress(message, signature string) (string, error)
}

type Service struct {
	repo     Repository
	verifier SignatureVerifier
	events   outbox.Recorder
}

func NewService(repo Repository, verifier SignatureVerifier, events outbox.Recorder) *Service {
	return &Service{repo: repo, verifier: verifier, events: events}
}

// Authenticate checks that signature was produced by address over message and
// returns the matching identity, registering it on first login.
func (s *Service) Authenticate(ctx context.Context, address, message, signature string) (*model.Identity, error) {
	if address == "" || message == "" || signature == "" {
		return nil, ErrMissingCredentials
	}

	normalized, ok := auth.NormalizeWalletAddress(address)
	if !ok {
		return nil, ErrInvalidAddress
	}

	recovered, err := s.verifier.RecoverAddress(message, signature)
	if err != nil {
		return nil, reasoncodes.Wrap(ErrMalformedSignature.Code, ErrMalformedSignature.Message, err)
	}
	if recovered != normalized {
		return nil, ErrSignatureMismatch
	}

	identity, err := s.repo.GetOrCreate(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("register identity: %w", err)
	}
	return identity, nil
}

// CompleteProfile sets profile fields and registers the address if it is
// not known yet.
func (s *Service) CompleteProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error) {
	if fields.IsEmpty() {
		return nil, ErrEmptyProfile
	}
	return s.repo.UpsertProfile(ctx, address, fields)
}

func (s *Service) GetProfile(ctx context.Context, address string) (*model.Identity, error) {
	return s.repo.GetWithDocuments(ctx, address)
}

func (s *Service) UpdateProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error) {
	if fields.IsEmpty() {
		return nil, ErrEmptyProfile
	}
	return s.repo.UpdateProfile(ctx, address, fields)
}

func (s *Service) DeleteProfile(ctx context.Context, address string) error {
	identity, err := s.repo.GetByAddress(ctx, address)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCascade(ctx, identity.Id); err != nil {
		return err
	}

	logger.Default().Infof("Identity %s deleted", identity.Id)
	s.events.Record(ctx, model.EventIdentityDeleted, identity.Id, identity.Summary())
	return nil
}

// Resolve maps an authenticated address to its identity.
func (s *Service) Resolve(ctx context.Context, address string) (*model.Identity, error) {
	return s.repo.GetByAddress(ctx, address)
}
