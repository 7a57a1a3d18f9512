package appointment

import (
	"fmt"

	"github.com/BruksfildServices01/salon-agenda/internal/domain/interval"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// BuildSchedule converts stored working hours and overrides into a
// schedule.Schedule. Rows with an invalid weekday or malformed times are
// reported instead of silently skipped.
func BuildSchedule(
	hours []models.WorkingHours,
	overrides []models.ScheduleOverride,
) (schedule.Schedule, error) {

	s := schedule.Schedule{
		Weekly:    schedule.WeeklySchedule{},
		Overrides: map[schedule.Date]schedule.Override{},
	}

	for _, wh := range hours {
		day, ok := schedule.WeekdayFromInt(wh.Weekday)
		if !ok {
			return schedule.Schedule{}, fmt.Errorf("working hours %d: invalid weekday %d", wh.ID, wh.Weekday)
		}
		if !wh.Active || wh.StartTime == "" || wh.EndTime == "" {
			s.Weekly[day] = schedule.Day{Enabled: false}
			continue
		}

		hoursSpan, err := interval.ParseRange(wh.StartTime, wh.EndTime)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("working hours %s: %w", day, err)
		}
		breaks, err := parseWindows(wh.Breaks)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("working hours %s breaks: %w", day, err)
		}
		s.Weekly[day] = schedule.Day{Enabled: true, Hours: hoursSpan, Breaks: breaks}
	}

	for _, ov := range overrides {
		date, err := schedule.ParseDate(ov.Date)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("override %d: %w", ov.ID, err)
		}
		windows, err := parseWindows(ov.Windows)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("override %s windows: %w", ov.Date, err)
		}
		breaks, err := parseWindows(ov.Breaks)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("override %s breaks: %w", ov.Date, err)
		}
		// an override without windows closes the day
		s.Overrides[date] = schedule.Override{
			Closed:  ov.Closed || len(windows) == 0,
			Windows: windows,
			Breaks:  breaks,
		}
	}

	return s, nil
}

func parseWindows(ws []models.TimeWindow) ([]interval.Interval, error) {
	out := make([]interval.Interval, 0, len(ws))
	for _, w := range ws {
		span, err := interval.ParseRange(w.Start, w.End)
		if err != nil {
			return nil, err
		}
		out = append(out, span)
	}
	return out, nil
}
