package types

import (
	"time"

	"github.com/google/uuid"
)

type Location struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project      *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name         string    `gorm:"not null;column:name" json:"name"`
	Address      string    `gorm:"column:address" json:"address"`
	City         string    `gorm:"column:city" json:"city"`
	State        string    `gorm:"column:state" json:"state"`
	Latitude     *float64  `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude    *float64  `gorm:"column:longitude" json:"longitude,omitempty"`
	MapLink      string    `gorm:"column:map_link" json:"map_link"`
	ContactName  string    `gorm:"column:contact_name" json:"contact_name"`
	ContactPhone string    `gorm:"column:contact_phone" json:"contact_phone"`
	ParkingNotes string    `gorm:"column:parking_notes" json:"parking_notes"`
	Notes        string    `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt    time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Location) TableName() string { return "location" }
