// Package events publishes domain events for other services to consume.
package events

import "context"

const (
	TopicAppointmentBooked        = "appointment.booked"
	TopicAppointmentStatusChanged = "appointment.status_changed"
	TopicSalePaid                 = "sale.paid"
)

// Publisher sends v as JSON under the routing key topic.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, v any) error
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) PublishJSON(context.Context, string, any) error { return nil }

type AppointmentBooked struct {
	AppointmentID  string `json:"appointment_id"`
	LocationID     uint   `json:"location_id"`
	ProfessionalID uint   `json:"professional_id"`
	Date           string `json:"date"`
	Start          string `json:"start"`
	End            string `json:"end"`
}

type AppointmentStatusChanged struct {
	AppointmentID string `json:"appointment_id"`
	From          string `json:"from"`
	To            string `json:"to"`
}

type SalePaid struct {
	SaleID           string `json:"sale_id"`
	AppointmentID    string `json:"appointment_id,omitempty"`
	ExternalChargeID string `json:"external_charge_id"`
	AmountPaid       string `json:"amount_paid"`
	Tip              string `json:"tip"`
}
