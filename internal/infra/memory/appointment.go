// Package memory is an in-process store for local runs and tests. Each
// transaction holds one lock for its whole duration, so transactions are
// serial.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/salon-agenda/internal/domain/schedule"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	locations     map[uint]models.Location
	professionals map[uint]models.Professional
	services      map[uint]models.Service
	hours         []models.WorkingHours
	overrides     []models.ScheduleOverride
	clients       []models.Client
	appointments  map[string]models.Appointment
	blocks        map[string]models.Block
	sales         map[string]models.Sale
}

func NewStore() *Store {
	return &Store{
		locations:     map[uint]models.Location{},
		professionals: map[uint]models.Professional{},
		services:      map[uint]models.Service{},
		appointments:  map[string]models.Appointment{},
		blocks:        map[string]models.Block{},
		sales:         map[string]models.Sale{},
	}
}

// ======================================================
// SEEDING
// ======================================================

func (s *Store) PutLocation(l models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[l.ID] = l
}

func (s *Store) PutProfessional(p models.Professional) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.professionals[p.ID] = p
}

func (s *Store) PutService(svc models.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
}

func (s *Store) PutSale(sale models.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales[sale.ID] = sale
}

func (s *Store) Appointments() []models.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Appointment, 0, len(s.appointments))
	for _, ap := range s.appointments {
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out
}

func (s *Store) Sale(id string) (models.Sale, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, ok := s.sales[id]
	return sale, ok
}

// ======================================================
// LOOKUPS
// ======================================================

func (s *Store) GetLocationByID(_ context.Context, id uint) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locations[id]
	if !ok {
		return nil, httperr.NotFound("location_not_found")
	}
	return &l, nil
}

func (s *Store) GetLocationBySlug(_ context.Context, slug string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.locations {
		if l.Slug == slug {
			return &l, nil
		}
	}
	return nil, httperr.NotFound("location_not_found")
}

func (s *Store) GetProfessional(_ context.Context, locationID, id uint) (*models.Professional, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.professionals[id]
	if !ok || p.LocationID != locationID || !p.Active {
		return nil, httperr.NotFound("professional_not_found")
	}
	return &p, nil
}

func (s *Store) GetService(_ context.Context, locationID, id uint) (*models.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[id]
	if !ok || svc.LocationID != locationID || !svc.Active {
		return nil, httperr.NotFound("service_not_found")
	}
	return &svc, nil
}

func (s *Store) GetOrCreateClient(_ context.Context, locationID uint, name, phone, email string) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.clients {
		if c.LocationID == locationID && c.Phone == phone {
			return &c, nil
		}
	}
	c := models.Client{ID: uint(len(s.clients) + 1), LocationID: locationID, Name: name, Phone: phone, Email: email}
	s.clients = append(s.clients, c)
	return &c, nil
}

// ======================================================
// AVAILABILITY
// ======================================================

func (s *Store) LoadSchedule(_ context.Context, professionalID uint, date schedule.Date) (schedule.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hours []models.WorkingHours
	for _, h := range s.hours {
		if h.ProfessionalID == professionalID {
			hours = append(hours, h)
		}
	}
	var overrides []models.ScheduleOverride
	for _, o := range s.overrides {
		if o.ProfessionalID == professionalID && o.Date == date.String() {
			overrides = append(overrides, o)
		}
	}
	return domain.BuildSchedule(hours, overrides)
}

func (s *Store) ListCommitments(_ context.Context, professionalID uint, date schedule.Date) ([]domain.Commitment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitmentsLocked(professionalID, date), nil
}

func (s *Store) commitmentsLocked(professionalID uint, date schedule.Date) []domain.Commitment {
	var out []domain.Commitment
	for _, ap := range s.appointments {
		if ap.ProfessionalID == professionalID && ap.Date == date.String() {
			out = append(out, domain.FromAppointment(ap))
		}
	}
	for _, b := range s.blocks {
		if b.ProfessionalID == professionalID && b.Date == date.String() {
			out = append(out, domain.FromBlock(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Span.Start < out[j].Span.Start })
	return out
}

// ======================================================
// APPOINTMENTS
// ======================================================

func (s *Store) GetAppointment(_ context.Context, id string, professionalID uint) (*models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ap, ok := s.appointments[id]
	if !ok || ap.ProfessionalID != professionalID {
		return nil, httperr.NotFound("appointment_not_found")
	}
	return &ap, nil
}

func (s *Store) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.appointments[ap.ID]
	if !ok || cur.ProfessionalID != ap.ProfessionalID {
		return httperr.NotFound("appointment_not_found")
	}
	cur.Status = ap.Status
	cur.CancelledAt = ap.CancelledAt
	cur.AttendedAt = ap.AttendedAt
	cur.UpdatedAt = time.Now().UTC()
	s.appointments[ap.ID] = cur
	return nil
}

func (s *Store) ListAppointmentsForDate(_ context.Context, professionalID uint, date schedule.Date) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Appointment
	for _, ap := range s.appointments {
		if ap.ProfessionalID != professionalID || ap.Date != date.String() {
			continue
		}
		for _, c := range s.clients {
			if ap.ClientID != nil && c.ID == *ap.ClientID {
				ap.Client = c
			}
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartMinute < out[j].StartMinute })
	return out, nil
}

func (s *Store) CancelBlock(_ context.Context, id string, professionalID uint) (*models.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blocks[id]
	if !ok || b.ProfessionalID != professionalID {
		return nil, httperr.NotFound("block_not_found")
	}
	if b.CancelledAt == nil {
		now := time.Now().UTC()
		b.CancelledAt = &now
		s.blocks[id] = b
	}
	return &b, nil
}

// ======================================================
// BOOKING TRANSACTION
// ======================================================

func (s *Store) WithinBookingTx(_ context.Context, fn func(tx domain.BookingTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &bookingTx{s: s}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ap := range tx.appointments {
		s.appointments[ap.ID] = ap
	}
	for _, b := range tx.blocks {
		s.blocks[b.ID] = b
	}
	return nil
}

type bookingTx struct {
	s            *Store
	appointments []models.Appointment
	blocks       []models.Block
}

func (tx *bookingTx) ListCommitments(ctx context.Context, professionalID uint, date schedule.Date) ([]domain.Commitment, error) {
	return tx.s.ListCommitments(ctx, professionalID, date)
}

func (tx *bookingTx) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	now := time.Now().UTC()
	ap.CreatedAt, ap.UpdatedAt = now, now
	tx.appointments = append(tx.appointments, *ap)
	return nil
}

func (tx *bookingTx) CreateBlock(_ context.Context, b *models.Block) error {
	tx.blocks = append(tx.blocks, *b)
	return nil
}

// ======================================================
// SCHEDULE MANAGEMENT
// ======================================================

func (s *Store) ListWorkingHours(_ context.Context, professionalID uint) ([]models.WorkingHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.WorkingHours{}
	for _, h := range s.hours {
		if h.ProfessionalID == professionalID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Weekday < out[j].Weekday })
	return out, nil
}

func (s *Store) ReplaceWorkingHours(_ context.Context, professionalID uint, hours []models.WorkingHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]models.WorkingHours, 0, len(s.hours)+len(hours))
	for _, h := range s.hours {
		if h.ProfessionalID != professionalID {
			kept = append(kept, h)
		}
	}
	s.hours = append(kept, hours...)
	return nil
}

func (s *Store) ListOverrides(_ context.Context, professionalID uint, from schedule.Date) ([]models.ScheduleOverride, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.ScheduleOverride{}
	for _, o := range s.overrides {
		d, err := schedule.ParseDate(o.Date)
		if err != nil || o.ProfessionalID != professionalID || d.Before(from) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *Store) UpsertOverride(_ context.Context, ov *models.ScheduleOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, o := range s.overrides {
		if o.ProfessionalID == ov.ProfessionalID && o.Date == ov.Date {
			s.overrides[i] = *ov
			return nil
		}
	}
	s.overrides = append(s.overrides, *ov)
	return nil
}

// Compile-time check
var (
	_ domain.Repository         = (*Store)(nil)
	_ domain.ScheduleRepository = (*Store)(nil)
)
