// Package schedule resolves a professional's working time for one date from
// a weekly schedule plus date-specific overrides.
package schedule

import (
	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
)

// Day is the recurring entry for one weekday.
type Day struct {
	Enabled bool
	Hours   interval.Interval
	Breaks  []interval.Interval
}

// Override replaces the weekly entry of a single date wholesale, hours and
// breaks alike. Closed suppresses the whole day.
type Override struct {
	Closed  bool
	Windows []interval.Interval
	Breaks  []interval.Interval
}

type WeeklySchedule map[Weekday]Day

type Schedule struct {
	Weekly    WeeklySchedule
	Overrides map[Date]Override
}

// Resolution is the working time of a date. Working is ordered and merged;
// Breaks are still to be removed from it.
type Resolution struct {
	Date    Date
	Working []interval.Interval
	Breaks  []interval.Interval
}

// Free returns the working intervals with breaks removed.
func (r Resolution) Free() []interval.Interval {
	return interval.SubtractAll(r.Working, r.Breaks)
}

// IsClosed reports whether nothing is bookable on the date.
func (r Resolution) IsClosed() bool {
	return len(r.Free()) == 0
}

// Resolve applies the override for date if any, otherwise the weekly entry
// for its weekday. A closed override never falls back to the weekly entry.
func (s Schedule) Resolve(date Date) Resolution {
	res := Resolution{Date: date}

	if ov, ok := s.Overrides[date]; ok {
		if ov.Closed {
			return res
		}
		res.Working = interval.Merge(ov.Windows)
		res.Breaks = interval.Merge(ov.Breaks)
		return res
	}

	day, ok := s.Weekly[date.Weekday()]
	if !ok || !day.Enabled || day.Hours.IsEmpty() {
		return res
	}
	res.Working = []interval.Interval{day.Hours}
	res.Breaks = interval.Merge(day.Breaks)
	return res
}
