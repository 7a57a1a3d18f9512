package appointment

import "github.com/BruksfildServices01/salon-agenda/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusAttended  Status = "attended"
	StatusNoShow    Status = "no_show"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// transitions lists the statuses reachable from each status. Attended,
// no-show and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusBooked:    {StatusConfirmed, StatusAttended, StatusNoShow, StatusCancelled},
	StatusConfirmed: {StatusAttended, StatusNoShow, StatusCancelled},
}

// ===============================
// Validations
// ===============================

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusBooked, StatusConfirmed, StatusAttended, StatusNoShow, StatusCancelled:
		return st, true
	}
	return "", false
}

// CanTransition define se a mudança de status é permitida
func CanTransition(from, to Status) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_state")
}

// OccupiesTime reports whether an appointment in this status takes part in
// conflict checks.
func (s Status) OccupiesTime() bool {
	return s != StatusCancelled
}

func InitialStatus() Status {
	return StatusBooked
}
