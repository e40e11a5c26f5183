package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectCrew assigns a crew member (or an unfilled role) to a project.
type ProjectCrew struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	Project          *Project       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	CrewMemberID     *uuid.UUID     `gorm:"type:uuid;index" json:"crew_member_id,omitempty"`
	CrewMember       *CrewMember    `gorm:"foreignKey:CrewMemberID;references:ID" json:"crew_member,omitempty"`
	Role             string         `gorm:"not null;column:role" json:"role"`
	Department       string         `gorm:"not null;column:department" json:"department"`
	DealRate         float64        `gorm:"column:deal_rate" json:"deal_rate"`
	DealType         string         `gorm:"not null;default:'DAY_RATE';column:deal_type" json:"deal_type"`
	Status           string         `gorm:"not null;default:'HOLD';column:status" json:"status"`
	PaymentType      string         `gorm:"column:payment_type" json:"payment_type"`
	OnboardingStatus string         `gorm:"column:onboarding_status" json:"onboarding_status"`
	NdaSigned        bool           `gorm:"column:nda_signed" json:"nda_signed"`
	BtsConsent       bool           `gorm:"column:bts_consent" json:"bts_consent"`
	IsLoanOut        bool           `gorm:"column:is_loan_out" json:"is_loan_out"`
	WalkieAssigned   bool           `gorm:"column:walkie_assigned" json:"walkie_assigned"`
	AgentName        string         `gorm:"column:agent_name" json:"agent_name"`
	AgentPhone       string         `gorm:"column:agent_phone" json:"agent_phone"`
	AgentEmail       string         `gorm:"column:agent_email" json:"agent_email"`
	WorkingDays      datatypes.JSON `gorm:"column:working_days;type:jsonb" json:"working_days"`
	Notes            string         `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (ProjectCrew) TableName() string { return "project_crew" }
