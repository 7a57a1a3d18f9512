package payment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	domain "github.com/BruksfildServices01/salon-agenda/internal/domain/payment"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memorySales serializes transactions with a mutex and only publishes
// writes when fn succeeds.
type memorySales struct {
	mu         sync.Mutex
	sales      map[string]models.Sale
	paidAppts  map[string]int
	txCount    int
	saves      int
	failOnSave error
}

func newMemorySales(sales ...models.Sale) *memorySales {
	m := &memorySales{sales: map[string]models.Sale{}, paidAppts: map[string]int{}}
	for _, s := range sales {
		m.sales[s.ID] = s
	}
	return m
}

func (m *memorySales) WithinSaleTx(ctx context.Context, fn func(tx domain.SaleTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txCount++

	tx := &memorySaleTx{m: m, sales: map[string]models.Sale{}, paid: map[string]int{}}
	if err := fn(tx); err != nil {
		return err
	}
	for id, s := range tx.sales {
		m.sales[id] = s
	}
	for id, n := range tx.paid {
		m.paidAppts[id] += n
	}
	return nil
}

func (m *memorySales) sale(id string) models.Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales[id]
}

type memorySaleTx struct {
	m     *memorySales
	sales map[string]models.Sale
	paid  map[string]int
}

func (tx *memorySaleTx) GetSaleForUpdate(_ context.Context, id string) (*models.Sale, error) {
	s, ok := tx.m.sales[id]
	if !ok {
		return nil, httperr.NotFound("sale_not_found")
	}
	return &s, nil
}

func (tx *memorySaleTx) SaveSale(_ context.Context, s *models.Sale) error {
	if tx.m.failOnSave != nil {
		return tx.m.failOnSave
	}
	tx.m.saves++
	tx.sales[s.ID] = *s
	return nil
}

func (tx *memorySaleTx) MarkAppointmentPaid(_ context.Context, id string) error {
	tx.paid[id]++
	return nil
}

type stubResolver struct {
	mu      sync.Mutex
	charges map[string]domain.Charge
	err     error
	calls   int
}

func (r *stubResolver) Resolve(_ context.Context, id string) (*domain.Charge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	ch, ok := r.charges[id]
	if !ok {
		return nil, domain.ErrUnresolvable
	}
	return &ch, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) PublishJSON(_ context.Context, topic string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

var errStoreDown = errors.New("connection refused")
