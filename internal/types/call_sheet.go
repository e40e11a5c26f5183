package types

import (
	"time"

	"github.com/google/uuid"
)

// CallSheet is one shoot day. Call times and weather values are stored as the
// display strings the frontend and workbook render ("7:00 AM", "75F"); every
// producer and consumer in the pipeline speaks that format.
type CallSheet struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_callsheet_project_day" json:"project_id"`
	Project         *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	DayNumber       int       `gorm:"not null;column:day_number;uniqueIndex:idx_callsheet_project_day" json:"day_number"`
	ShootDate       time.Time `gorm:"not null;column:shoot_date" json:"shoot_date"`
	Status          string    `gorm:"not null;default:'DRAFT';column:status" json:"status"`
	GeneralCrewCall string    `gorm:"column:general_crew_call" json:"general_crew_call"`
	TalentCall      string    `gorm:"column:talent_call" json:"talent_call"`
	FirstShot       string    `gorm:"column:first_shot" json:"first_shot"`
	WeatherHigh     string    `gorm:"column:weather_high" json:"weather_high"`
	WeatherLow      string    `gorm:"column:weather_low" json:"weather_low"`
	WeatherSummary  string    `gorm:"column:weather_summary" json:"weather_summary"`
	Sunrise         string    `gorm:"column:sunrise" json:"sunrise"`
	Sunset          string    `gorm:"column:sunset" json:"sunset"`
	NearestHospital string    `gorm:"column:nearest_hospital" json:"nearest_hospital"`
	HospitalAddress string    `gorm:"column:hospital_address" json:"hospital_address"`
	Notes           string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (CallSheet) TableName() string { return "call_sheet" }
