package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	SourceAPI     = "api"
	SourceWebhook = "webhook"
)

// Event is one audit entry. An empty Source means SourceAPI.
type Event struct {
	LocationID uint
	ActorID    *uint
	Source     string
	Action     string
	Entity     string
	EntityID   string
	Metadata   any
}

// Dispatcher writes audit events in the background. A nil *Dispatcher
// drops everything.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.logger.Error("audit write failed",
				"action", ev.Action,
				"entity", ev.Entity,
				"entity_id", ev.EntityID,
				"err", err,
			)
		}
		cancel()
	}
}

// Dispatch never blocks; a full queue drops the event, and so does a
// closed dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("audit dispatcher closed, dropping event", "action", ev.Action)
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close drains the queue and waits for the worker, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
