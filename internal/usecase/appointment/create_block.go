package appointment

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type CreateBlockInput struct {
	LocationID     uint
	ProfessionalID uint
	Date           string
	StartTime      string
	EndTime        string
	Reason         string
}

// CreateBlock holds time on a calendar. Blocks go through the same
// transaction as bookings and can never overlap an appointment.
type CreateBlock struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *slog.Logger
}

func NewCreateBlock(
	repo domain.Repository,
	audit *audit.Dispatcher,
	logger *slog.Logger,
) *CreateBlock {
	return &CreateBlock{repo: repo, audit: audit, logger: logger}
}

func (uc *CreateBlock) Execute(
	ctx context.Context,
	in CreateBlockInput,
) (*models.Block, error) {

	date, err := schedule.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	span, err := interval.ParseRange(in.StartTime, in.EndTime)
	if err != nil {
		return nil, httperr.Validation("invalid_time_range")
	}

	b := &models.Block{
		ID:             uuid.NewString(),
		ProfessionalID: in.ProfessionalID,
		Date:           date.String(),
		StartMinute:    span.Start,
		EndMinute:      span.End,
		Reason:         in.Reason,
	}

	err = uc.repo.WithinBookingTx(ctx, func(tx domain.BookingTx) error {
		commitments, err := tx.ListCommitments(ctx, in.ProfessionalID, date)
		if err != nil {
			return err
		}
		if _, ok := domain.FindConflict(span, commitments); ok {
			return httperr.Conflict("time_conflict")
		}
		return tx.CreateBlock(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	actor := in.ProfessionalID
	uc.audit.Dispatch(audit.Event{
		LocationID: in.LocationID,
		ActorID:    &actor,
		Action:     "block_created",
		Entity:     "block",
		EntityID:   b.ID,
		Metadata:   map[string]string{"date": b.Date, "range": span.String()},
	})

	return b, nil
}

// ======================================================
// CANCEL
// ======================================================

type CancelBlock struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelBlock(repo domain.Repository, audit *audit.Dispatcher) *CancelBlock {
	return &CancelBlock{repo: repo, audit: audit}
}

// Execute frees the blocked time. Cancelling twice is not an error.
func (uc *CancelBlock) Execute(
	ctx context.Context,
	locationID uint,
	professionalID uint,
	blockID string,
) (*models.Block, error) {

	b, err := uc.repo.CancelBlock(ctx, blockID, professionalID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		LocationID: locationID,
		ActorID:    &professionalID,
		Action:     "block_cancelled",
		Entity:     "block",
		EntityID:   b.ID,
	})

	return b, nil
}
