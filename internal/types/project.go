package types

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_project_org_job" json:"organization_id"`
	Organization   *Organization `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	ClientID       *uuid.UUID    `gorm:"type:uuid;index" json:"client_id,omitempty"`
	JobNumber      string        `gorm:"not null;column:job_number;uniqueIndex:idx_project_org_job" json:"job_number"`
	JobName        string        `gorm:"not null;column:job_name" json:"job_name"`
	Client         string        `gorm:"column:client" json:"client"`
	Agency         string        `gorm:"column:agency" json:"agency"`
	Brand          string        `gorm:"column:brand" json:"brand"`
	Status         string        `gorm:"not null;default:'ACTIVE';column:status" json:"status"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
