package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

type ProjectCrewRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, crew []types.ProjectCrew) ([]types.ProjectCrew, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProjectCrew, error)
	GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.ProjectCrew, error)
	DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error
}

type projectCrewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectCrewRepo(db *gorm.DB, baseLog *logger.Logger) ProjectCrewRepo {
	return &projectCrewRepo{db: db, log: baseLog.With("repo", "ProjectCrewRepo")}
}

func (r *projectCrewRepo) CreateBatch(ctx context.Context, tx *gorm.DB, crew []types.ProjectCrew) ([]types.ProjectCrew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(crew) == 0 {
		return crew, nil
	}
	if err := transaction.WithContext(ctx).Create(&crew).Error; err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *projectCrewRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ProjectCrew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var pc types.ProjectCrew
	err := transaction.WithContext(ctx).
		Preload("CrewMember").
		Where("id = ?", id).
		First(&pc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

func (r *projectCrewRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]types.ProjectCrew, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var crew []types.ProjectCrew
	err := transaction.WithContext(ctx).
		Preload("CrewMember").
		Where("project_id = ?", projectID).
		Find(&crew).Error
	if err != nil {
		return nil, err
	}
	return crew, nil
}

func (r *projectCrewRepo) DeleteByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&types.ProjectCrew{}).Error
}
