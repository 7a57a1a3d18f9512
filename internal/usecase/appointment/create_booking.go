package appointment

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/infra/events"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

var tracer = otel.Tracer("github.com/BruksfildServices01/salon-agenda/internal/usecase/appointment")

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	LocationID     uint
	ProfessionalID uint

	// ActorID is set when the professional books from the private area;
	// such bookings skip the minimum advance.
	ActorID *uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	// ServiceID is optional. Without EndTime the service duration sets the
	// end of the appointment.
	ServiceID uint

	Date      string
	StartTime string
	EndTime   string
	Notes     string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	publisher events.Publisher,
	logger *slog.Logger,
) *CreateBooking {
	return &CreateBooking{
		repo:      repo,
		audit:     audit,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Appointment, error) {

	ctx, span := tracer.Start(ctx, "appointment.create_booking")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("professional.id", int64(in.ProfessionalID)),
		attribute.String("booking.date", in.Date),
	)

	// --------------------------------------------------
	// 1️⃣ Entrada (sem acesso ao banco)
	// --------------------------------------------------
	req, err := parseBookingInput(in)
	if err != nil {
		return nil, err
	}
	date := req.date

	// --------------------------------------------------
	// 2️⃣ Local, profissional e serviço
	// --------------------------------------------------
	loc, err := uc.repo.GetLocationByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.repo.GetProfessional(ctx, in.LocationID, in.ProfessionalID); err != nil {
		return nil, err
	}

	requested, serviceID, err := uc.resolveSpan(ctx, in, req)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Antecedência mínima
	// --------------------------------------------------
	if in.ActorID == nil {
		earliest := uc.now().Add(time.Duration(minAdvance(loc.MinAdvanceMinutes)) * time.Minute)
		if timezone.At(loc.Timezone, date, requested.Start).Before(earliest) {
			return nil, httperr.Validation("too_soon")
		}
	}

	// --------------------------------------------------
	// 4️⃣ Horário de atendimento + pausas
	// --------------------------------------------------
	sched, err := uc.repo.LoadSchedule(ctx, in.ProfessionalID, date)
	if err != nil {
		return nil, err
	}
	if !domain.FitsSchedule(sched.Resolve(date), requested) {
		return nil, httperr.Validation("outside_working_hours")
	}

	// --------------------------------------------------
	// 5️⃣ Cliente (get or create)
	// --------------------------------------------------
	client, err := uc.repo.GetOrCreateClient(
		ctx,
		in.LocationID,
		strings.TrimSpace(in.ClientName),
		strings.TrimSpace(in.ClientPhone),
		strings.TrimSpace(in.ClientEmail),
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ID:             uuid.NewString(),
		LocationID:     in.LocationID,
		ProfessionalID: in.ProfessionalID,
		ClientID:       &client.ID,
		ServiceID:      serviceID,
		Date:           date.String(),
		StartMinute:    requested.Start,
		EndMinute:      requested.End,
		Status:         string(domain.InitialStatus()),
		PaymentStatus:  string(domain.PaymentPending),
		Notes:          in.Notes,
	}

	// --------------------------------------------------
	// 6️⃣ Conflito + criação na mesma transação
	// --------------------------------------------------
	err = uc.repo.WithinBookingTx(ctx, func(tx domain.BookingTx) error {
		commitments, err := tx.ListCommitments(ctx, in.ProfessionalID, date)
		if err != nil {
			return err
		}
		if c, ok := domain.FindConflict(requested, commitments); ok {
			uc.logger.Info("booking conflict",
				"professional_id", in.ProfessionalID,
				"date", date.String(),
				"requested", requested.String(),
				"conflicts_with", c.ID,
			)
			return httperr.Conflict("time_conflict")
		}
		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	ap.Client = *client

	// --------------------------------------------------
	// 7️⃣ Auditoria + evento
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		LocationID: in.LocationID,
		ActorID:    in.ActorID,
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   ap.ID,
	})

	if err := uc.publisher.PublishJSON(ctx, events.TopicAppointmentBooked, events.AppointmentBooked{
		AppointmentID:  ap.ID,
		LocationID:     ap.LocationID,
		ProfessionalID: ap.ProfessionalID,
		Date:           ap.Date,
		Start:          interval.FormatHM(ap.StartMinute),
		End:            interval.FormatHM(ap.EndMinute),
	}); err != nil {
		uc.logger.Error("publish appointment.booked failed", "appointment_id", ap.ID, "err", err)
	}

	return ap, nil
}

type bookingRequest struct {
	date  schedule.Date
	start int
	// end is -1 when the service duration decides it.
	end int
}

// parseBookingInput rejects malformed input before any store access.
func parseBookingInput(in CreateBookingInput) (bookingRequest, error) {
	if strings.TrimSpace(in.ClientName) == "" || strings.TrimSpace(in.ClientPhone) == "" {
		return bookingRequest{}, httperr.Validation("invalid_request")
	}

	date, err := schedule.ParseDate(in.Date)
	if err != nil {
		return bookingRequest{}, httperr.Validation("invalid_date")
	}

	start, err := interval.ParseHM(in.StartTime)
	if err != nil {
		return bookingRequest{}, httperr.Validation("invalid_time_range")
	}

	req := bookingRequest{date: date, start: start, end: -1}
	switch {
	case in.EndTime != "":
		end, err := interval.ParseHM(in.EndTime)
		if err != nil || !validSpan(start, end) {
			return bookingRequest{}, httperr.Validation("invalid_time_range")
		}
		req.end = end
	case in.ServiceID == 0:
		return bookingRequest{}, httperr.Validation("invalid_time_range")
	}
	return req, nil
}

func validSpan(start, end int) bool {
	return end > start && end <= interval.MinutesPerDay
}

// resolveSpan applies the service duration when no end time was given.
func (uc *CreateBooking) resolveSpan(
	ctx context.Context,
	in CreateBookingInput,
	req bookingRequest,
) (interval.Interval, *uint, error) {

	var serviceID *uint
	end := req.end
	if in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, in.LocationID, in.ServiceID)
		if err != nil {
			return interval.Interval{}, nil, err
		}
		serviceID = &svc.ID
		if end < 0 {
			end = req.start + svc.DurationMin
		}
	}

	if !validSpan(req.start, end) {
		return interval.Interval{}, nil, httperr.Validation("invalid_time_range")
	}
	return interval.New(req.start, end), serviceID, nil
}
