package schedule

import "time"

// Weekday is the closed set of days a weekly schedule is keyed by. The
// ordinals match time.Weekday so values stored as 0..6 round-trip.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// WeekdayFromInt validates a stored ordinal.
func WeekdayFromInt(n int) (Weekday, bool) {
	if n < int(Sunday) || n > int(Saturday) {
		return 0, false
	}
	return Weekday(n), true
}

func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

func (w Weekday) String() string {
	if !w.Valid() {
		return "invalid"
	}
	return time.Weekday(w).String()
}
