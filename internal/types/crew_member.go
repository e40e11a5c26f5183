package types

import (
	"time"

	"github.com/google/uuid"
)

// CrewMember is the organization-wide crew registry; project assignments
// reference it so contact details accumulate across jobs.
type CrewMember struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	FirstName      string        `gorm:"not null;column:first_name" json:"first_name"`
	LastName       string        `gorm:"column:last_name" json:"last_name"`
	Email          string        `gorm:"column:email;index" json:"email"`
	Phone          string        `gorm:"column:phone;index" json:"phone"`
	Department     string        `gorm:"column:department" json:"department"`
	PrimaryRole    string        `gorm:"column:primary_role" json:"primary_role"`
	DefaultRate    float64       `gorm:"column:default_rate" json:"default_rate"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (CrewMember) TableName() string { return "crew_member" }
