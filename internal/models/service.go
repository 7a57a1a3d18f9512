package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is a catalog entry a client books; its duration drives the slot
// length offered by availability.
type Service struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	LocationID uint `gorm:"index" json:"location_id"`

	Name        string          `gorm:"size:100;not null" json:"name"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2)" json:"price"`
	Active      bool            `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
