package models

import "time"

type Appointment struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	LocationID uint `gorm:"index" json:"location_id"`

	ProfessionalID uint         `gorm:"index:idx_appointment_day" json:"professional_id"`
	Professional   Professional `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ClientID  *uint  `json:"client_id"`
	Client    Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"client"`
	ServiceID *uint  `json:"service_id"`

	Date        string `gorm:"size:10;index:idx_appointment_day" json:"date"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`

	Status        string  `gorm:"size:20;default:'booked'" json:"status"`
	PaymentStatus string  `gorm:"size:20;default:'pending'" json:"payment_status"`
	SaleID        *string `gorm:"size:36" json:"sale_id"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	AttendedAt  *time.Time `json:"attended_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Block is a manual hold on a professional's calendar.
type Block struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ProfessionalID uint   `gorm:"index:idx_block_day" json:"professional_id"`
	Date           string `gorm:"size:10;index:idx_block_day" json:"date"`
	StartMinute    int    `json:"start_minute"`
	EndMinute      int    `json:"end_minute"`
	Reason         string `gorm:"size:255" json:"reason"`

	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
