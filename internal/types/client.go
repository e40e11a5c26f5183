package types

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"constraint:OnDelete:CASCADE;foreignKey:OrganizationID;references:ID" json:"organization,omitempty"`
	Name           string        `gorm:"not null;column:name;index" json:"name"`
	LogoURL        string        `gorm:"column:logo_url" json:"logo_url"`
	ResearchNotes  string        `gorm:"column:research_notes;type:text" json:"research_notes"`
	ContactName    string        `gorm:"column:contact_name" json:"contact_name"`
	Email          string        `gorm:"column:email" json:"email"`
	Phone          string        `gorm:"column:phone" json:"phone"`
	IsActive       bool          `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt      time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:now()" json:"updated_at"`
}

func (Client) TableName() string { return "client" }
