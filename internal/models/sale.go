package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is created by the point of sale. Its ID is the merchant reference sent
// to the payment gateway.
type Sale struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	LocationID uint   `gorm:"index" json:"location_id"`

	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	PaymentStatus string          `gorm:"size:20;default:'pending'" json:"payment_status"`

	AppointmentID *string `gorm:"size:36" json:"appointment_id"`

	AmountPaidActual decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"amount_paid_actual"`
	Tip              decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"tip"`
	ExternalChargeID string          `gorm:"size:64;index" json:"external_charge_id"`
	PaidAt           *time.Time      `json:"paid_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
