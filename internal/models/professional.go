package models

import "time"

type Professional struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	LocationID uint     `gorm:"index" json:"location_id"`
	Location   Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Phone  string `gorm:"size:20" json:"phone"`
	Active bool   `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
