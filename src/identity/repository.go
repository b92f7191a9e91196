package identity

import (
	"context"
	"errors"
	"time"

	reasoncodes "docvault/pkg/reason_codes"
	"docvault/src/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrIdentityNotFound = reasoncodes.New(reasoncodes.ErrNotFound, "identity not found")

type Repository interface {
	GetOrCreate(ctx context.Context, address string) (*model.Identity, error)
	GetById(ctx context.Context, id uuid.UUID) (*model.Identity, error)
	GetByAddress(ctx context.Context, address string) (*model.Identity, error)
	GetWithDocuments(ctx context.Context, address string) (*model.Identity, error)
	UpsertProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error)
	UpdateProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error)
	MarkAccessRequestsSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// GetOrCreate inserts the identity unless the address is already registered,
// which keeps concurrent first logins of one wallet down to a single row.
func (r *gormRepository) GetOrCreate(ctx context.Context, address string) (*model.Identity, error) {
	identity := model.Identity{Address: address}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "address"}}, DoNothing: true}).
		Create(&identity).Error
	if err != nil {
		return nil, err
	}
	return r.GetByAddress(ctx, address)
}

func (r *gormRepository) GetById(ctx context.Context, id uuid.UUID) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&identity).Error
	return notFound(&identity, err)
}

func (r *gormRepository) GetByAddress(ctx context.Context, address string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).Where("address = ?", model.NormalizeAddress(address)).First(&identity).Error
	return notFound(&identity, err)
}

func (r *gormRepository) GetWithDocuments(ctx context.Context, address string) (*model.Identity, error) {
	var identity model.Identity
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("address = ?", model.NormalizeAddress(address)).
		First(&identity).Error
	return notFound(&identity, err)
}

func (r *gormRepository) UpsertProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error) {
	identity := model.Identity{Address: address}
	fields.apply(&identity)

	assignments := fields.columns()
	if len(assignments) == 0 {
		return r.GetOrCreate(ctx, address)
	}
	assignments["updated_at"] = time.Now().UTC()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}},
			DoUpdates: clause.Assignments(assignments),
		}).
		Create(&identity).Error
	if err != nil {
		return nil, err
	}
	return r.GetByAddress(ctx, address)
}

func (r *gormRepository) UpdateProfile(ctx context.Context, address string, fields ProfileFields) (*model.Identity, error) {
	identity, err := r.GetByAddress(ctx, address)
	if err != nil {
		return nil, err
	}

	if columns := fields.columns(); len(columns) > 0 {
		if err := r.db.WithContext(ctx).Model(identity).Updates(columns).Error; err != nil {
			return nil, err
		}
	}
	return r.GetByAddress(ctx, address)
}

func (r *gormRepository) MarkAccessRequestsSeen(ctx context.Context, id uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Identity{}).
		Where("id = ?", id).
		Update("last_checked_access_requests", at.UTC())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrIdentityNotFound
	}
	return nil
}

// DeleteCascade removes the identity together with its documents and every
// access request it is party to. Requests for its documents always target it.
func (r *gormRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("from_id = ? OR to_id = ?", id, id).Delete(&model.AccessRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("owner_id = ?", id).Delete(&model.Document{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&model.Identity{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrIdentityNotFound
		}
		return nil
	})
}

func notFound(identity *model.Identity, err error) (*model.Identity, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return identity, nil
}
