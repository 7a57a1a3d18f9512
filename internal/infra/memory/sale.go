package memory

import (
	"context"

	appointment "github.com/BruksfildServices01/salon-agenda/internal/domain/appointment"
	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// WithinSaleTx shares the booking lock; writes become visible only when fn
// succeeds.
func (s *Store) WithinSaleTx(_ context.Context, fn func(tx domain.SaleTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	tx := &saleTx{s: s, sales: map[string]models.Sale{}}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sale := range tx.sales {
		s.sales[id] = sale
	}
	for _, id := range tx.paidAppointments {
		if ap, ok := s.appointments[id]; ok {
			ap.PaymentStatus = string(appointment.PaymentPaid)
			s.appointments[id] = ap
		}
	}
	return nil
}

type saleTx struct {
	s                *Store
	sales            map[string]models.Sale
	paidAppointments []string
}

func (tx *saleTx) GetSaleForUpdate(_ context.Context, id string) (*models.Sale, error) {
	tx.s.mu.Lock()
	defer tx.s.mu.Unlock()
	sale, ok := tx.s.sales[id]
	if !ok {
		return nil, httperr.NotFound("sale_not_found")
	}
	return &sale, nil
}

func (tx *saleTx) SaveSale(_ context.Context, sale *models.Sale) error {
	tx.sales[sale.ID] = *sale
	return nil
}

func (tx *saleTx) MarkAppointmentPaid(_ context.Context, id string) error {
	tx.s.mu.Lock()
	_, ok := tx.s.appointments[id]
	tx.s.mu.Unlock()
	if !ok {
		return httperr.NotFound("appointment_not_found")
	}
	tx.paidAppointments = append(tx.paidAppointments, id)
	return nil
}

var _ domain.SaleRepository = (*Store)(nil)
