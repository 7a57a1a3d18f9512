package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

const (
	defaultGranularity = 30
	defaultMinAdvance  = 120
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

// Execute lists the free slots of a professional on one date. Slots are a
// snapshot; booking checks again.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	loc, err := uc.repo.GetLocationByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.repo.GetProfessional(ctx, in.LocationID, in.ProfessionalID); err != nil {
		return nil, err
	}

	granularity := in.Granularity
	if granularity == 0 {
		granularity = defaultGranularity
	}
	if granularity < 1 || granularity > interval.MinutesPerDay {
		return nil, httperr.Validation("invalid_granularity")
	}

	duration := in.Duration
	if in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, in.LocationID, in.ServiceID)
		if err != nil {
			return nil, err
		}
		duration = svc.DurationMin
	}
	if duration < 0 || duration > interval.MinutesPerDay {
		return nil, httperr.Validation("invalid_duration")
	}

	// --------------------------------------------------
	// Dia passado não tem horários
	// --------------------------------------------------
	now := uc.now()
	if in.Date.Before(timezone.Today(loc.Timezone, now)) {
		return []domain.TimeSlot{}, nil
	}

	sched, err := uc.repo.LoadSchedule(ctx, in.ProfessionalID, in.Date)
	if err != nil {
		return nil, err
	}

	commitments, err := uc.repo.ListCommitments(ctx, in.ProfessionalID, in.Date)
	if err != nil {
		return nil, err
	}

	slots := domain.GenerateSlots(sched.Resolve(in.Date), commitments, granularity, duration)

	// --------------------------------------------------
	// Antecedência mínima
	// --------------------------------------------------
	earliest := now.Add(time.Duration(minAdvance(loc.MinAdvanceMinutes)) * time.Minute)
	kept := slots[:0]
	for _, s := range slots {
		if !timezone.At(loc.Timezone, in.Date, s.Span.Start).Before(earliest) {
			kept = append(kept, s)
		}
	}

	return domain.ToTimeSlots(in.Date, in.ProfessionalID, kept), nil
}

func minAdvance(configured int) int {
	if configured <= 0 {
		return defaultMinAdvance
	}
	return configured
}
