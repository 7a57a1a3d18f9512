package models

import "time"

// Client is a walk-in or online customer. There is no login; bookings look
// clients up by phone within the location.
type Client struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	LocationID uint `gorm:"index:idx_client_location_phone,priority:1" json:"location_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index:idx_client_location_phone,priority:2" json:"phone"`
	Email string `gorm:"size:100" json:"email,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
