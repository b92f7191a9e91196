package document

import (
	"context"
	"errors"

	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDocumentNotFound = reasoncodes.New(reasoncodes.ErrNotFound, "document not found")

type Repository interface {
	Create(ctx context.Context, document *model.Document) error
	GetById(ctx context.Context, id uuid.UUID) (*model.Document, error)
	ListForOwner(ctx context.Context, ownerId uuid.UUID) ([]model.Document, error)
	FindAnchorTx(ctx context.Context, fileHash string) (string, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, document *model.Document) error {
	return r.db.WithContext(ctx).Create(document).Error
}

func (r *gormRepository) GetById(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var document model.Document
	err := r.db.WithContext(ctx).Preload("Owner").Where("id = ?", id).First(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *gormRepository) ListForOwner(ctx context.Context, ownerId uuid.UUID) ([]model.Document, error) {
	var documents []model.Document
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerId).
		Order("created_at DESC").
		Find(&documents).Error
	return documents, err
}

// FindAnchorTx returns the anchor reference recorded for content with this
// hash, or "" when no document carries one.
func (r *gormRepository) FindAnchorTx(ctx context.Context, fileHash string) (string, error) {
	var refs []string
	err := r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("file_hash = ? AND anchor_tx <> ''", fileHash).
		Order("created_at ASC").
		Limit(1).
		Pluck("anchor_tx", &refs).Error
	if err != nil || len(refs) == 0 {
		return "", err
	}
	return refs[0], nil
}

// DeleteCascade removes the document and every access request pointing at it.
func (r *gormRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&model.AccessRequest{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Document{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDocumentNotFound
		}
		return nil
	})
}
