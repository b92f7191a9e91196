package access

import (
	"context"
	"errors"
	"time"

	"docvault/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, request *model.AccessRequest) error
	GetById(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error)
	DecidePending(ctx context.Context, id uuid.UUID, status model.AccessRequestStatus, at time.Time) (bool, error)
	HasApproved(ctx context.Context, fromId, toId, documentId uuid.UUID) (bool, error)
	ListIncoming(ctx context.Context, toId uuid.UUID) ([]model.AccessRequest, error)
	ListOutgoing(ctx context.Context, fromId uuid.UUID) ([]model.AccessRequest, error)
	ListPendingSince(ctx context.Context, toId uuid.UUID, since time.Time) ([]model.AccessRequest, error)
	CountPending(ctx context.Context, toId uuid.UUID) (int64, error)
	ListApprovedDocuments(ctx context.Context, fromId uuid.UUID) ([]model.Document, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create relies on idx_access_requests_pending to reject a second pending
// request for the same triple.
func (r *gormRepository) Create(ctx context.Context, request *model.AccessRequest) error {
	err := r.db.WithContext(ctx).Create(request).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRequest
	}
	return err
}

func (r *gormRepository) GetById(ctx context.Context, id uuid.UUID) (*model.AccessRequest, error) {
	var request model.AccessRequest
	err := r.withParties(ctx).Where("access_requests.id = ?", id).First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// DecidePending moves a pending request to status. It reports false when the
// request is no longer pending.
func (r *gormRepository) DecidePending(ctx context.Context, id uuid.UUID, status model.AccessRequestStatus, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.AccessRequest{}).
		Where("id = ? AND status = ?", id, model.AccessRequestPending).
		Updates(map[string]interface{}{"status": status, "updated_at": at.UTC()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *gormRepository) HasApproved(ctx context.Context, fromId, toId, documentId uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AccessRequest{}).
		Where("from_id = ? AND to_id = ? AND document_id = ? AND status = ?", fromId, toId, documentId, model.AccessRequestApproved).
		Count(&count).Error
	return count > 0, err
}

func (r *gormRepository) ListIncoming(ctx context.Context, toId uuid.UUID) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := r.withParties(ctx).
		Where("to_id = ?", toId).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *gormRepository) ListOutgoing(ctx context.Context, fromId uuid.UUID) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := r.withParties(ctx).
		Where("from_id = ?", fromId).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *gormRepository) ListPendingSince(ctx context.Context, toId uuid.UUID, since time.Time) ([]model.AccessRequest, error) {
	var requests []model.AccessRequest
	err := r.withParties(ctx).
		Where("to_id = ? AND status = ? AND created_at > ?", toId, model.AccessRequestPending, since.UTC()).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *gormRepository) CountPending(ctx context.Context, toId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AccessRequest{}).
		Where("to_id = ? AND status = ?", toId, model.AccessRequestPending).
		Count(&count).Error
	return count, err
}

// ListApprovedDocuments returns documents fromId holds an approved request
// for, counting only approvals given by the document's current owner.
func (r *gormRepository) ListApprovedDocuments(ctx context.Context, fromId uuid.UUID) ([]model.Document, error) {
	approved := r.db.WithContext(ctx).
		Table("access_requests").
		Select("1").
		Where("access_requests.document_id = documents.id").
		Where("access_requests.to_id = documents.owner_id").
		Where("access_requests.from_id = ? AND access_requests.status = ?", fromId, model.AccessRequestApproved)

	var documents []model.Document
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("EXISTS (?)", approved).
		Order("documents.created_at DESC").
		Find(&documents).Error
	return documents, err
}

func (r *gormRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("From").
		Preload("To").
		Preload("Document")
}
