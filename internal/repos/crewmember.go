package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/types"
)

type CrewMemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, member *types.CrewMember) (*types.CrewMember, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CrewMember, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) (*types.CrewMember, error)
	GetByPhone(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, phone string) (*types.CrewMember, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
}

type crewMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCrewMemberRepo(db *gorm.DB, baseLog *logger.Logger) CrewMemberRepo {
	return &crewMemberRepo{db: db, log: baseLog.With("repo", "CrewMemberRepo")}
}

func (r *crewMemberRepo) Create(ctx context.Context, tx *gorm.DB, member *types.CrewMember) (*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (r *crewMemberRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member types.CrewMember
	err := transaction.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *crewMemberRepo) GetByEmail(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, email string) (*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member types.CrewMember
	err := transaction.WithContext(ctx).
		Where("organization_id = ? AND email = ?", orgID, email).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *crewMemberRepo) GetByPhone(ctx context.Context, tx *gorm.DB, orgID uuid.UUID, phone string) (*types.CrewMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var member types.CrewMember
	err := transaction.WithContext(ctx).
		Where("organization_id = ? AND phone = ?", orgID, phone).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *crewMemberRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CrewMember{}).
		Where("id = ?", id).
		Updates(fields).Error
}
