package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

type CallSheetRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, sheets []types.CallSheet) ([]types.CallSheet, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CallSheet, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.CallSheet, error)
	DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type callSheetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCallSheetRepo(db *gorm.DB, baseLog *logger.Logger) CallSheetRepo {
	return &callSheetRepo{db: db, log: baseLog.With("repo", "CallSheetRepo")}
}

func (r *callSheetRepo) CreateBatch(ctx context.Context, tx *gorm.DB, sheets []types.CallSheet) ([]types.CallSheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(sheets) == 0 {
		return sheets, nil
	}
	if err := transaction.WithContext(ctx).Create(&sheets).Error; err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *callSheetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CallSheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sheet types.CallSheet
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&sheet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sheet, nil
}

func (r *callSheetRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.CallSheet, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var sheets []types.CallSheet
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("day_number ASC").
		Find(&sheets).Error
	if err != nil {
		return nil, err
	}
	return sheets, nil
}

func (r *callSheetRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.CallSheet{}).Error
}

func (r *callSheetRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CallSheet{}).
		Where("id = ?", id).
		Updates(fields).Error
}
