package appointment

import (
	"context"

	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// Repository is everything the appointment use cases read or write. Lookups
// that find nothing return an httperr not-found error.
type Repository interface {
	// -------- Location / Professional --------
	GetLocationByID(
		ctx context.Context,
		id uint,
	) (*models.Location, error)

	GetLocationBySlug(
		ctx context.Context,
		slug string,
	) (*models.Location, error)

	GetProfessional(
		ctx context.Context,
		locationID uint,
		professionalID uint,
	) (*models.Professional, error)

	// -------- Service --------
	GetService(
		ctx context.Context,
		locationID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		locationID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)

	// -------- Availability --------
	// LoadSchedule returns the weekly hours plus the override for date, if
	// any.
	LoadSchedule(
		ctx context.Context,
		professionalID uint,
		date schedule.Date,
	) (schedule.Schedule, error)

	ListCommitments(
		ctx context.Context,
		professionalID uint,
		date schedule.Date,
	) ([]Commitment, error)

	// -------- Appointment (state change / listing) --------
	GetAppointment(
		ctx context.Context,
		appointmentID string,
		professionalID uint,
	) (*models.Appointment, error)

	// UpdateAppointmentStatus writes the status columns only; payment
	// status is owned by reconciliation.
	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForDate(
		ctx context.Context,
		professionalID uint,
		date schedule.Date,
	) ([]models.Appointment, error)

	CancelBlock(
		ctx context.Context,
		blockID string,
		professionalID uint,
	) (*models.Block, error)

	// -------- Booking --------

	// WithinBookingTx runs fn in one serializable transaction. Serialization
	// failures are retried a bounded number of times; any error returned by
	// fn that is not a serialization failure aborts immediately.
	WithinBookingTx(
		ctx context.Context,
		fn func(tx BookingTx) error,
	) error
}

// BookingTx is the view of the store inside a booking transaction.
type BookingTx interface {
	ListCommitments(
		ctx context.Context,
		professionalID uint,
		date schedule.Date,
	) ([]Commitment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	CreateBlock(
		ctx context.Context,
		b *models.Block,
	) error
}

// ScheduleRepository manages the stored working hours and overrides that
// LoadSchedule reads.
type ScheduleRepository interface {
	ListWorkingHours(
		ctx context.Context,
		professionalID uint,
	) ([]models.WorkingHours, error)

	// ReplaceWorkingHours swaps the whole weekly schedule atomically.
	ReplaceWorkingHours(
		ctx context.Context,
		professionalID uint,
		hours []models.WorkingHours,
	) error

	ListOverrides(
		ctx context.Context,
		professionalID uint,
		from schedule.Date,
	) ([]models.ScheduleOverride, error)

	// UpsertOverride replaces any override already stored for the same date.
	UpsertOverride(
		ctx context.Context,
		ov *models.ScheduleOverride,
	) error
}
