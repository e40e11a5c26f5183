package types

import (
	"time"

	"github.com/google/uuid"
)

// CallSheetRsvp is one crew member's per-day confirmation, personalized call
// time and report-to location.
type CallSheetRsvp struct {
	ID                   uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CallSheetID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"call_sheet_id"`
	CallSheet            *CallSheet   `gorm:"constraint:OnDelete:CASCADE;foreignKey:CallSheetID;references:ID" json:"call_sheet,omitempty"`
	ProjectCrewID        uuid.UUID    `gorm:"type:uuid;not null;index" json:"project_crew_id"`
	ProjectCrew          *ProjectCrew `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectCrewID;references:ID" json:"project_crew,omitempty"`
	Status               string       `gorm:"not null;default:'PENDING';column:status" json:"status"`
	PersonalizedCallTime string       `gorm:"column:personalized_call_time" json:"personalized_call_time"`
	PersonalizedLocation string       `gorm:"column:personalized_location" json:"personalized_location"`
	ConfirmedAt          *time.Time   `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	CreatedAt            time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (CallSheetRsvp) TableName() string { return "call_sheet_rsvp" }
