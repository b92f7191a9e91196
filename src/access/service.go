package access

import (
	"context"
	"time"

	"docvault/pkg/logger"
	"docvault/src/model"
	"docvault/src/outbox"

	"github.com/google/uuid"
)

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

func (d Decision) status() (model.AccessRequestStatus, bool) {
	switch d {
	case Approve:
		return model.AccessRequestApproved, true
	case Reject:
		return model.AccessRequestRejected, true
	default:
		return "", false
	}
}

type Level string

const (
	LevelOwner    Level = "owner"
	LevelApproved Level = "approved"
	LevelDenied   Level = "denied"
)

func (l Level) Granted() bool {
	return l == LevelOwner || l == LevelApproved
}

type IdentityStore interface {
	GetById(ctx context.Context, id uuid.UUID) (*model.Identity, error)
	MarkAccessRequestsSeen(ctx context.Context, id uuid.UUID, at time.Time) error
}

type DocumentStore interface {
	GetById(ctx context.Context, id uuid.UUID) (*model.Document, error)
}

type Service struct {
	repo       Repository
	identities IdentityStore
	documents  DocumentStore
	events     outbox.Recorder
	Now        func() time.Time
}

func NewService(repo Repository, identities IdentityStore, documents DocumentStore, events outbox.Recorder, opts ...func(*Service)) *Service {
	s := &Service{
		repo:       repo,
		identities: identities,
		documents:  documents,
		events:     events,
		Now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.Now().UTC()
}

// RequestAccess files a pending request from requesterId to the owner of documentId.
func (s *Service) RequestAccess(ctx context.Context, requesterId, documentId uuid.UUID) (*model.AccessRequest, error) {
	requester, err := s.identities.GetById(ctx, requesterId)
	if err != nil {
		return nil, err
	}
	document, err := s.documents.GetById(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if document.OwnerId == requester.Id {
		return nil, ErrSelfRequest
	}

	now := s.now()
	request := &model.AccessRequest{
		FromId:     requester.Id,
		ToId:       document.OwnerId,
		DocumentId: document.Id,
		Status:     model.AccessRequestPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	request.From = requester
	request.To = document.Owner
	request.Document = document

	s.events.Record(ctx, model.EventAccessRequestCreated, request.Id, request.View())
	return request, nil
}

// DecideRequest lets the request target approve or reject a pending request.
// Decided requests are terminal.
func (s *Service) DecideRequest(ctx context.Context, requestId, deciderId uuid.UUID, decision Decision) (*model.AccessRequest, error) {
	status, ok := decision.status()
	if !ok {
		return nil, ErrInvalidDecision
	}

	request, err := s.repo.GetById(ctx, requestId)
	if err != nil {
		return nil, err
	}
	if request.ToId != deciderId {
		return nil, ErrNotRequestTarget
	}
	if request.Status.IsTerminal() {
		return nil, ErrRequestDecided
	}

	decided, err := s.repo.DecidePending(ctx, requestId, status, s.now())
	if err != nil {
		return nil, err
	}
	if !decided {
		return nil, ErrRequestDecided
	}

	request, err = s.repo.GetById(ctx, requestId)
	if err != nil {
		return nil, err
	}

	eventType := model.EventAccessRequestApproved
	if status == model.AccessRequestRejected {
		eventType = model.EventAccessRequestRejected
	}
	s.events.Record(ctx, eventType, request.Id, request.View())
	logger.Default().Debugf("Access request %s %s by %s", request.Id, request.Status, deciderId)
	return request, nil
}

// CanAccess answers whether requesterId may read documentId and why.
func (s *Service) CanAccess(ctx context.Context, requesterId, documentId uuid.UUID) (Level, error) {
	document, err := s.documents.GetById(ctx, documentId)
	if err != nil {
		return LevelDenied, err
	}
	if document.OwnerId == requesterId {
		return LevelOwner, nil
	}

	approved, err := s.repo.HasApproved(ctx, requesterId, document.OwnerId, document.Id)
	if err != nil {
		return LevelDenied, err
	}
	if approved {
		return LevelApproved, nil
	}
	return LevelDenied, nil
}

func (s *Service) HasAccess(ctx context.Context, requesterId, documentId uuid.UUID) (bool, error) {
	level, err := s.CanAccess(ctx, requesterId, documentId)
	return level.Granted(), err
}

func (s *Service) ListApprovedForRequester(ctx context.Context, requesterId uuid.UUID) ([]model.Document, error) {
	return s.repo.ListApprovedDocuments(ctx, requesterId)
}

func (s *Service) ListIncoming(ctx context.Context, targetId uuid.UUID) ([]model.AccessRequest, error) {
	return s.repo.ListIncoming(ctx, targetId)
}

func (s *Service) ListOutgoing(ctx context.Context, requesterId uuid.UUID) ([]model.AccessRequest, error) {
	return s.repo.ListOutgoing(ctx, requesterId)
}

// HasNewAccessRequests returns the pending requests to targetId created after
// it last marked its requests as seen.
func (s *Service) HasNewAccessRequests(ctx context.Context, targetId uuid.UUID) (bool, []model.AccessRequest, error) {
	target, err := s.identities.GetById(ctx, targetId)
	if err != nil {
		return false, nil, err
	}

	requests, err := s.repo.ListPendingSince(ctx, target.Id, target.LastCheckedAccessRequests)
	if err != nil {
		return false, nil, err
	}
	return len(requests) > 0, requests, nil
}

func (s *Service) HasPendingRequests(ctx context.Context, targetId uuid.UUID) (bool, error) {
	count, err := s.repo.CountPending(ctx, targetId)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) MarkSeen(ctx context.Context, identityId uuid.UUID) error {
	return s.identities.MarkAccessRequestsSeen(ctx, identityId, s.now())
}
