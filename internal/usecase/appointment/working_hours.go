package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

// ScheduleStore is the schedule repository plus the location lookup used to
// find "today" in the location's timezone.
type ScheduleStore interface {
	domain.ScheduleRepository
	GetLocationByID(ctx context.Context, id uint) (*models.Location, error)
}

// ManageSchedule reads and replaces a professional's weekly hours and
// date overrides. Everything is validated the same way availability
// parses it, so stored rows always resolve.
type ManageSchedule struct {
	repo ScheduleStore
	now  func() time.Time
}

func NewManageSchedule(repo ScheduleStore) *ManageSchedule {
	return &ManageSchedule{repo: repo, now: time.Now}
}

func (uc *ManageSchedule) WorkingHours(
	ctx context.Context,
	professionalID uint,
) ([]models.WorkingHours, error) {
	return uc.repo.ListWorkingHours(ctx, professionalID)
}

func (uc *ManageSchedule) ReplaceWorkingHours(
	ctx context.Context,
	professionalID uint,
	days []models.WorkingHours,
) ([]models.WorkingHours, error) {

	seen := map[int]bool{}
	rows := make([]models.WorkingHours, 0, len(days))
	for _, d := range days {
		if seen[d.Weekday] {
			return nil, httperr.Validation("duplicate_weekday")
		}
		seen[d.Weekday] = true

		d.ID = 0
		d.ProfessionalID = professionalID
		rows = append(rows, d)
	}

	if _, err := domain.BuildSchedule(rows, nil); err != nil {
		return nil, httperr.BusinessError{Kind: httperr.KindValidation, Code: "invalid_working_hours", Err: err}
	}

	if err := uc.repo.ReplaceWorkingHours(ctx, professionalID, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Overrides lists overrides dated from onward. An empty from means today
// at the location.
func (uc *ManageSchedule) Overrides(
	ctx context.Context,
	locationID uint,
	professionalID uint,
	from string,
) ([]models.ScheduleOverride, error) {

	if from == "" {
		loc, err := uc.repo.GetLocationByID(ctx, locationID)
		if err != nil {
			return nil, err
		}
		return uc.repo.ListOverrides(ctx, professionalID, timezone.Today(loc.Timezone, uc.now()))
	}

	d, err := schedule.ParseDate(from)
	if err != nil {
		return nil, httperr.Validation("invalid_date")
	}
	return uc.repo.ListOverrides(ctx, professionalID, d)
}

func (uc *ManageSchedule) SetOverride(
	ctx context.Context,
	professionalID uint,
	ov models.ScheduleOverride,
) (*models.ScheduleOverride, error) {

	ov.ID = 0
	ov.ProfessionalID = professionalID

	if _, err := domain.BuildSchedule(nil, []models.ScheduleOverride{ov}); err != nil {
		return nil, httperr.BusinessError{Kind: httperr.KindValidation, Code: "invalid_override", Err: err}
	}
	if len(ov.Windows) == 0 {
		ov.Closed = true
	}

	if err := uc.repo.UpsertOverride(ctx, &ov); err != nil {
		return nil, err
	}
	return &ov, nil
}
