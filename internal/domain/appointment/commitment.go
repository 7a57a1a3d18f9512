package appointment

import (
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type CommitmentKind string

const (
	KindAppointment CommitmentKind = "appointment"
	KindBlock       CommitmentKind = "block"
)

// Commitment is anything occupying time on a professional's calendar.
type Commitment struct {
	ID        string
	Kind      CommitmentKind
	Span      interval.Interval
	Cancelled bool
}

func FromAppointment(ap models.Appointment) Commitment {
	return Commitment{
		ID:        ap.ID,
		Kind:      KindAppointment,
		Span:      interval.New(ap.StartMinute, ap.EndMinute),
		Cancelled: !Status(ap.Status).OccupiesTime(),
	}
}

func FromBlock(b models.Block) Commitment {
	return Commitment{
		ID:        b.ID,
		Kind:      KindBlock,
		Span:      interval.New(b.StartMinute, b.EndMinute),
		Cancelled: b.CancelledAt != nil,
	}
}

// Active returns the spans of the non-cancelled commitments.
func Active(commitments []Commitment) []interval.Interval {
	out := make([]interval.Interval, 0, len(commitments))
	for _, c := range commitments {
		if !c.Cancelled {
			out = append(out, c.Span)
		}
	}
	return out
}

// FindConflict returns the first non-cancelled commitment overlapping span.
func FindConflict(span interval.Interval, commitments []Commitment) (Commitment, bool) {
	for _, c := range commitments {
		if c.Cancelled {
			continue
		}
		if interval.Overlaps(span, c.Span) {
			return c, true
		}
	}
	return Commitment{}, false
}
