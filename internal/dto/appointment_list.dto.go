package dto

import (
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type AppointmentListDTO struct {
	ID             string `json:"id"`
	ProfessionalID uint   `json:"professional_id"`
	Date           string `json:"date"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
	Status         string `json:"status"`
	PaymentStatus  string `json:"payment_status"`
	ClientName     string `json:"client_name"`
	ClientPhone    string `json:"client_phone"`
	Notes          string `json:"notes"`
}

// FromAppointment expects Client to be preloaded.
func FromAppointment(ap models.Appointment) AppointmentListDTO {
	return AppointmentListDTO{
		ID:             ap.ID,
		ProfessionalID: ap.ProfessionalID,
		Date:           ap.Date,
		StartTime:      interval.FormatHM(ap.StartMinute),
		EndTime:        interval.FormatHM(ap.EndMinute),
		Status:         ap.Status,
		PaymentStatus:  ap.PaymentStatus,
		ClientName:     ap.Client.Name,
		ClientPhone:    ap.Client.Phone,
		Notes:          ap.Notes,
	}
}
