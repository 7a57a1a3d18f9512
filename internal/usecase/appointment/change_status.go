package appointment

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

type ChangeStatusInput struct {
	LocationID     uint
	ProfessionalID uint
	AppointmentID  string
	To             domain.Status
}

// ChangeStatus confirms, attends, marks no-show or cancels an appointment.
// A cancelled appointment no longer blocks its time.
type ChangeStatus struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	publisher events.Publisher,
	logger *slog.Logger,
) *ChangeStatus {
	return &ChangeStatus{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (*models.Appointment, error) {

	loc, err := uc.repo.GetLocationByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	from := ap.Status
	now := uc.now().In(timezone.Location(loc.Timezone))
	if err := domain.ChangeStatus(ap, in.To, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: in.LocationID,
		ActorID:    &in.ProfessionalID,
		Action:     "appointment_" + string(in.To),
		Entity:     "appointment",
		EntityID:   ap.ID,
		Metadata:   map[string]string{"from": from},
	})

	if err := uc.publisher.PublishJSON(ctx, events.TopicAppointmentStatusChanged, events.AppointmentStatusChanged{
		AppointmentID: ap.ID,
		From:          from,
		To:            ap.Status,
	}); err != nil {
		uc.logger.Error("publish appointment.status_changed failed", "appointment_id", ap.ID, "err", err)
	}

	return ap, nil
}
