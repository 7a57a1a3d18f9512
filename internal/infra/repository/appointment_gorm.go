package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type AppointmentGormRepository struct {
	db       *gorm.DB
	maxTries uint
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db, maxTries: defaultTxTries}
}

// --------------------------------------------------
// Location / Professional
// --------------------------------------------------

func (r *AppointmentGormRepository) GetLocationByID(
	ctx context.Context,
	id uint,
) (*models.Location, error) {

	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, notFound(err, "location_not_found")
	}
	return &loc, nil
}

func (r *AppointmentGormRepository) GetLocationBySlug(
	ctx context.Context,
	slug string,
) (*models.Location, error) {

	var loc models.Location
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&loc).Error; err != nil {
		return nil, notFound(err, "location_not_found")
	}
	return &loc, nil
}

func (r *AppointmentGormRepository) GetProfessional(
	ctx context.Context,
	locationID uint,
	professionalID uint,
) (*models.Professional, error) {

	var p models.Professional
	if err := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ? AND active = true", professionalID, locationID).
		First(&p).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}
	return &p, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	locationID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND location_id = ? AND active = true", serviceID, locationID).
		First(&svc).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &svc, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	locationID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND phone = ?", locationID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		LocationID: locationID,
		Name:       name,
		Phone:      phone,
		Email:      email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func (r *AppointmentGormRepository) LoadSchedule(
	ctx context.Context,
	professionalID uint,
	date schedule.Date,
) (schedule.Schedule, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Find(&hours).Error; err != nil {
		return schedule.Schedule{}, err
	}

	var overrides []models.ScheduleOverride
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date = ?", professionalID, date.String()).
		Find(&overrides).Error; err != nil {
		return schedule.Schedule{}, err
	}

	return domain.BuildSchedule(hours, overrides)
}

func (r *AppointmentGormRepository) ListCommitments(
	ctx context.Context,
	professionalID uint,
	date schedule.Date,
) ([]domain.Commitment, error) {
	return listCommitments(r.db.WithContext(ctx), professionalID, date)
}

func listCommitments(
	db *gorm.DB,
	professionalID uint,
	date schedule.Date,
) ([]domain.Commitment, error) {

	var apps []models.Appointment
	if err := db.
		Select("id", "start_minute", "end_minute", "status").
		Where(
			"professional_id = ? AND date = ? AND status <> ?",
			professionalID, date.String(), string(domain.StatusCancelled),
		).
		Order("start_minute ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	var blocks []models.Block
	if err := db.
		Where("professional_id = ? AND date = ? AND cancelled_at IS NULL", professionalID, date.String()).
		Order("start_minute ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Commitment, 0, len(apps)+len(blocks))
	for _, ap := range apps {
		out = append(out, domain.FromAppointment(ap))
	}
	for _, b := range blocks {
		out = append(out, domain.FromBlock(b))
	}
	return out, nil
}

// --------------------------------------------------
// Appointment (state change / listing)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	appointmentID string,
	professionalID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", appointmentID, professionalID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
) error {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND professional_id = ?", ap.ID, ap.ProfessionalID).
		Select(appointmentStatusColumns).
		Updates(map[string]any{
			"status":       ap.Status,
			"cancelled_at": ap.CancelledAt,
			"attended_at":  ap.AttendedAt,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.NotFound("appointment_not_found")
	}
	return nil
}

var appointmentStatusColumns = []string{"status", "cancelled_at", "attended_at", "updated_at"}

func (r *AppointmentGormRepository) ListAppointmentsForDate(
	ctx context.Context,
	professionalID uint,
	date schedule.Date,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("professional_id = ? AND date = ?", professionalID, date.String()).
		Order("start_minute ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) CancelBlock(
	ctx context.Context,
	blockID string,
	professionalID uint,
) (*models.Block, error) {

	var b models.Block
	if err := r.db.WithContext(ctx).
		Where("id = ? AND professional_id = ?", blockID, professionalID).
		First(&b).Error; err != nil {
		return nil, notFound(err, "block_not_found")
	}

	if b.CancelledAt != nil {
		return &b, nil
	}

	now := time.Now().UTC()
	b.CancelledAt = &now
	if err := r.db.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *AppointmentGormRepository) WithinBookingTx(
	ctx context.Context,
	fn func(tx domain.BookingTx) error,
) error {
	return runSerializable(ctx, r.db, r.maxTries, func(tx *gorm.DB) error {
		return fn(&bookingTx{db: tx})
	})
}

type bookingTx struct {
	db *gorm.DB
}

// ListCommitments locks the professional row first so concurrent bookings
// for the same professional queue behind each other.
func (t *bookingTx) ListCommitments(
	ctx context.Context,
	professionalID uint,
	date schedule.Date,
) ([]domain.Commitment, error) {

	var p models.Professional
	if err := t.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&p, professionalID).Error; err != nil {
		return nil, notFound(err, "professional_not_found")
	}

	return listCommitments(t.db.WithContext(ctx), professionalID, date)
}

func (t *bookingTx) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	err := t.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
	if httperr.IsExclusionConflict(err) {
		return httperr.Conflict("time_conflict")
	}
	return err
}

func (t *bookingTx) CreateBlock(
	ctx context.Context,
	b *models.Block,
) error {
	err := t.db.WithContext(ctx).Create(b).Error
	if httperr.IsExclusionConflict(err) {
		return httperr.Conflict("time_conflict")
	}
	return err
}

// --------------------------------------------------
// Schedule management
// --------------------------------------------------

func (r *AppointmentGormRepository) ListWorkingHours(
	ctx context.Context,
	professionalID uint,
) ([]models.WorkingHours, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("professional_id = ?", professionalID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *AppointmentGormRepository) ReplaceWorkingHours(
	ctx context.Context,
	professionalID uint,
	hours []models.WorkingHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("professional_id = ?", professionalID).
			Delete(&models.WorkingHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		return tx.Create(&hours).Error
	})
}

func (r *AppointmentGormRepository) ListOverrides(
	ctx context.Context,
	professionalID uint,
	from schedule.Date,
) ([]models.ScheduleOverride, error) {

	var out []models.ScheduleOverride
	if err := r.db.WithContext(ctx).
		Where("professional_id = ? AND date >= ?", professionalID, from.String()).
		Order("date ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) UpsertOverride(
	ctx context.Context,
	ov *models.ScheduleOverride,
) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "professional_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"closed", "windows", "breaks", "reason", "updated_at"}),
		}).
		Create(ov).Error
}

// Compile-time check
var (
	_ domain.Repository         = (*AppointmentGormRepository)(nil)
	_ domain.ScheduleRepository = (*AppointmentGormRepository)(nil)
)
