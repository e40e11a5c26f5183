package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

type LocationRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, locations []types.Location) ([]types.Location, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.Location, error)
	DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type locationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLocationRepo(db *gorm.DB, baseLog *logger.Logger) LocationRepo {
	return &locationRepo{db: db, log: baseLog.With("repo", "LocationRepo")}
}

func (r *locationRepo) CreateBatch(ctx context.Context, tx *gorm.DB, locations []types.Location) ([]types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(locations) == 0 {
		return locations, nil
	}
	if err := transaction.WithContext(ctx).Create(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var location types.Location
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.Location, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var locations []types.Location
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&locations).Error
	if err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.Location{}).Error
}

func (r *locationRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Location{}).
		Where("id = ?", id).
		Updates(fields).Error
}
