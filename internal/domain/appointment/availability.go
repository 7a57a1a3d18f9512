package appointment

import (
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
)

type AvailabilityInput struct {
	LocationID     uint
	ProfessionalID uint
	ServiceID      uint
	Date           schedule.Date
	Granularity    int
	Duration       int
}

type TimeSlot struct {
	Date           string `json:"date"`
	Start          string `json:"start"`
	End            string `json:"end"`
	ProfessionalID uint   `json:"professional_id"`
}

// Slot is a candidate window. It is not held: booking re-validates it.
type Slot struct {
	Span interval.Interval
}

// GenerateSlots removes breaks and non-cancelled commitments from the
// resolved working time, then walks every remaining fragment from its start
// in steps of granularity. A slot of length duration is emitted when it fits
// entirely inside the fragment, so a slot ending exactly at closing time is
// offered. duration <= 0 means duration == granularity.
func GenerateSlots(res schedule.Resolution, commitments []Commitment, granularity, duration int) []Slot {
	if granularity <= 0 {
		return nil
	}
	if duration <= 0 {
		duration = granularity
	}

	cuts := append(append([]interval.Interval{}, res.Breaks...), Active(commitments)...)
	free := interval.SubtractAll(res.Working, cuts)

	var slots []Slot
	for _, frag := range free {
		for start := frag.Start; start+duration <= frag.End; start += granularity {
			slots = append(slots, Slot{Span: interval.New(start, start+duration)})
		}
	}
	return slots
}

// FitsSchedule reports whether span lies inside working time without
// touching a break.
func FitsSchedule(res schedule.Resolution, span interval.Interval) bool {
	for _, frag := range res.Free() {
		if frag.Contains(span) {
			return true
		}
	}
	return false
}

func ToTimeSlots(date schedule.Date, professionalID uint, slots []Slot) []TimeSlot {
	out := make([]TimeSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, TimeSlot{
			Date:           date.String(),
			Start:          interval.FormatHM(s.Span.Start),
			End:            interval.FormatHM(s.Span.End),
			ProfessionalID: professionalID,
		})
	}
	return out
}
