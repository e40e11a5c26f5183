package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

type CallSheetRsvpRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rsvps []types.CallSheetRsvp) ([]types.CallSheetRsvp, error)
	GetByProjectCrewAndCallSheet(ctx context.Context, tx *gorm.DB, projectCrewID, callSheetID uuid.UUID) (*types.CallSheetRsvp, error)
	GetFirstByProjectCrew(ctx context.Context, tx *gorm.DB, projectCrewID uuid.UUID) (*types.CallSheetRsvp, error)
	DeleteByCallSheetIDs(ctx context.Context, tx *gorm.DB, callSheetIDs []uuid.UUID) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type callSheetRsvpRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCallSheetRsvpRepo(db *gorm.DB, baseLog *logger.Logger) CallSheetRsvpRepo {
	return &callSheetRsvpRepo{db: db, log: baseLog.With("repo", "CallSheetRsvpRepo")}
}

func (r *callSheetRsvpRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rsvps []types.CallSheetRsvp) ([]types.CallSheetRsvp, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rsvps) == 0 {
		return rsvps, nil
	}
	if err := transaction.WithContext(ctx).Create(&rsvps).Error; err != nil {
		return nil, err
	}
	return rsvps, nil
}

func (r *callSheetRsvpRepo) GetByProjectCrewAndCallSheet(ctx context.Context, tx *gorm.DB, projectCrewID, callSheetID uuid.UUID) (*types.CallSheetRsvp, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rsvp types.CallSheetRsvp
	err := transaction.WithContext(ctx).
		Where("project_crew_id = ? AND call_sheet_id = ?", projectCrewID, callSheetID).
		First(&rsvp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *callSheetRsvpRepo) GetFirstByProjectCrew(ctx context.Context, tx *gorm.DB, projectCrewID uuid.UUID) (*types.CallSheetRsvp, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var rsvp types.CallSheetRsvp
	err := transaction.WithContext(ctx).
		Where("project_crew_id = ?", projectCrewID).
		Order("created_at ASC").
		First(&rsvp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *callSheetRsvpRepo) DeleteByCallSheetIDs(ctx context.Context, tx *gorm.DB, callSheetIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(callSheetIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("call_sheet_id IN ?", callSheetIDs).
		Delete(&types.CallSheetRsvp{}).Error
}

func (r *callSheetRsvpRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CallSheetRsvp{}).
		Where("id = ?", id).
		Updates(fields).Error
}
