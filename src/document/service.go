package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/model"
	"docvault/src/outbox"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

var (
	ErrInvalidUpload  = reasoncodes.New(reasoncodes.ErrInvalidInput, "a non-empty file with a name is required")
	ErrNotOwner       = reasoncodes.New(reasoncodes.ErrUnauthorized, "only the owner can delete this document")
	ErrAccessDenied   = reasoncodes.New(reasoncodes.ErrUnauthorized, "no access to this document")
	ErrAnchorDisabled = reasoncodes.New(reasoncodes.ErrUpstreamFailure, "hash anchoring is not configured")
	ErrObjectStore    = reasoncodes.New(reasoncodes.ErrUpstreamFailure, "object store upload failed")
	ErrContentStore   = reasoncodes.New(reasoncodes.ErrUpstreamFailure, "content store upload failed")
	ErrAnchorStore    = reasoncodes.New(reasoncodes.ErrUpstreamFailure, "anchoring the file hash failed")
	ErrAnchorLookup   = reasoncodes.New(reasoncodes.ErrUpstreamFailure, "hash lookup failed")
)

type IdentityStore interface {
	GetById(ctx context.Context, id uuid.UUID) (*model.Identity, error)
}

type AccessChecker interface {
	HasAccess(ctx context.Context, requesterId, documentId uuid.UUID) (bool, error)
}

type VerifyResult struct {
	Exists bool   `json:"exists"`
	Hash   string `json:"hash"`
}

type Service struct {
	repo       Repository
	identities IdentityStore
	objects    ObjectStore
	contents   ContentStore
	anchor     HashAnchor
	access     AccessChecker
	events     outbox.Recorder
}

type Option func(*Service)

// WithAnchor enables hash anchoring on upload and verification.
func WithAnchor(anchor HashAnchor) Option {
	return func(s *Service) { s.anchor = anchor }
}

func NewService(repo Repository, identities IdentityStore, objects ObjectStore, contents ContentStore, access AccessChecker, events outbox.Recorder, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		identities: identities,
		objects:    objects,
		contents:   contents,
		access:     access,
		events:     events,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func HashContent(content []byte) ([32]byte, string) {
	sum := sha256.Sum256(content)
	return sum, hex.EncodeToString(sum[:])
}

// Upload stores content in both stores and records the document. Nothing is
// recorded when any store fails; blobs already pushed are left behind.
func (s *Service) Upload(ctx context.Context, ownerId uuid.UUID, fileName string, content []byte) (*model.Document, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || len(content) == 0 {
		return nil, ErrInvalidUpload
	}

	owner, err := s.identities.GetById(ctx, ownerId)
	if err != nil {
		return nil, err
	}

	objectUrl, err := s.objects.Put(ctx, fileName, content)
	if err != nil {
		return nil, reasoncodes.Wrap(ErrObjectStore.Code, ErrObjectStore.Message, err)
	}

	contentId, err := s.contents.Put(ctx, fileName, content)
	if err != nil {
		return nil, reasoncodes.Wrap(ErrContentStore.Code, ErrContentStore.Message, err)
	}

	sum, fileHash := HashContent(content)
	document := &model.Document{
		OwnerId:   owner.Id,
		FileName:  fileName,
		Size:      int64(len(content)),
		ObjectUrl: objectUrl,
		ContentId: contentId,
		FileHash:  fileHash,
	}

	if s.anchor != nil {
		ref, err := s.anchorHash(ctx, sum, fileHash)
		if err != nil {
			return nil, err
		}
		document.AnchorTx = ref
	}

	if err := s.repo.Create(ctx, document); err != nil {
		return nil, err
	}
	document.Owner = owner

	logger.Default().Infof("Document %s uploaded by %s", document.Id, owner.Id)
	s.events.Record(ctx, model.EventDocumentUploaded, document.Id, document.View())
	return document, nil
}

// anchorHash stores sum unless it is already anchored. An anchored hash reuses
// the reference of an earlier document with the same content, if one is known.
func (s *Service) anchorHash(ctx context.Context, sum [32]byte, fileHash string) (string, error) {
	anchored, err := s.anchor.Verify(ctx, sum)
	if err != nil {
		return "", reasoncodes.Wrap(ErrAnchorLookup.Code, ErrAnchorLookup.Message, err)
	}
	if anchored {
		return s.repo.FindAnchorTx(ctx, fileHash)
	}

	ref, err := s.anchor.Store(ctx, sum)
	if err != nil {
		return "", reasoncodes.Wrap(ErrAnchorStore.Code, ErrAnchorStore.Message, err)
	}
	return ref, nil
}

func (s *Service) Delete(ctx context.Context, requesterId, documentId uuid.UUID) error {
	document, err := s.repo.GetById(ctx, documentId)
	if err != nil {
		return err
	}
	if document.OwnerId != requesterId {
		return ErrNotOwner
	}

	if err := s.repo.DeleteCascade(ctx, document.Id); err != nil {
		return err
	}

	s.events.Record(ctx, model.EventDocumentDeleted, document.Id, document.View())
	return nil
}

// Verify reports whether the hash of content has been anchored.
func (s *Service) Verify(ctx context.Context, content []byte) (VerifyResult, error) {
	if len(content) == 0 {
		return VerifyResult{}, ErrInvalidUpload
	}

	sum, fileHash := HashContent(content)
	if s.anchor == nil {
		return VerifyResult{Hash: fileHash}, ErrAnchorDisabled
	}

	exists, err := s.anchor.Verify(ctx, sum)
	if err != nil {
		return VerifyResult{Hash: fileHash}, reasoncodes.Wrap(ErrAnchorLookup.Code, ErrAnchorLookup.Message, err)
	}
	return VerifyResult{Exists: exists, Hash: fileHash}, nil
}

func (s *Service) ListForOwner(ctx context.Context, ownerId uuid.UUID) ([]model.Document, error) {
	return s.repo.ListForOwner(ctx, ownerId)
}

// ShareCode renders a PNG QR code pointing at the document's gateway URL.
func (s *Service) ShareCode(ctx context.Context, requesterId, documentId uuid.UUID) ([]byte, error) {
	granted, err := s.access.HasAccess(ctx, requesterId, documentId)
	if err != nil {
		return nil, err
	}
	if !granted {
		return nil, ErrAccessDenied
	}

	document, err := s.repo.GetById(ctx, documentId)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(s.contents.GatewayURL(document.ContentId), qrcode.Medium, qrCodeSize)
}
