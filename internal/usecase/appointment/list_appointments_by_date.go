package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/dto"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	professionalID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	d, err := schedule.ParseDate(date)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}

	appointments, err := uc.repo.ListAppointmentsForDate(ctx, professionalID, d)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.FromAppointment(ap))
	}

	return out, nil
}
