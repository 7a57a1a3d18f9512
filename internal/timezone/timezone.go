package timezone

import (
	"time"

	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone, then UTC when tzdata is missing.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Today is the calendar date at now in tz.
func Today(tz string, now time.Time) schedule.Date {
	return schedule.DateOf(now.In(Location(tz)))
}

// At returns the instant minute minutes after midnight of date in tz.
func At(tz string, date schedule.Date, minute int) time.Time {
	return date.In(Location(tz)).Add(time.Duration(minute) * time.Minute)
}
