package appointment

import (
	"time"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// ChangeStatus applies a status action to ap, stamping the matching
// timestamp.
func ChangeStatus(ap *models.Appointment, to Status, now time.Time) error {
	if err := CanTransition(Status(ap.Status), to); err != nil {
		return err
	}

	ap.Status = string(to)
	switch to {
	case StatusCancelled:
		ap.CancelledAt = &now
	case StatusAttended:
		ap.AttendedAt = &now
	}
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	return ChangeStatus(ap, StatusCancelled, now)
}
