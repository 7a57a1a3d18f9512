package models

import "time"

// AuditLog records who changed what at a location. ActorID is nil for
// changes made by public bookings or payment webhooks; Source tells them
// apart.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	LocationID uint   `gorm:"index:idx_audit_location_created,priority:1" json:"location_id"`
	ActorID    *uint  `json:"actor_id"`
	Source     string `gorm:"size:20;not null;default:'api'" json:"source"`
	Action     string `gorm:"size:50;not null" json:"action"`

	Entity   string `gorm:"size:50" json:"entity"`
	EntityID string `gorm:"size:64;index" json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `gorm:"index:idx_audit_location_created,priority:2" json:"created_at"`
}
