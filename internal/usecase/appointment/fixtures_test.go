package appointment

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/BruksfildServices01/salon-agenda/internal/infra/memory"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// newMemoryRepo seeds location 1 ("centro", UTC, 60 min advance) with
// professional 7 working Mondays 09:00-17:00 with a 13:00-14:00 break, and
// a 45 minute service 3.
func newMemoryRepo() *memory.Store {
	s := memory.NewStore()
	s.PutLocation(models.Location{ID: 1, Slug: "centro", Timezone: "UTC", MinAdvanceMinutes: 60})
	s.PutProfessional(models.Professional{ID: 7, LocationID: 1, Name: "Ana", Active: true})
	s.PutService(models.Service{ID: 3, LocationID: 1, Name: "Corte", DurationMin: 45, Active: true})
	_ = s.ReplaceWorkingHours(context.Background(), 7, []models.WorkingHours{{
		ProfessionalID: 7,
		Weekday:        1,
		Active:         true,
		StartTime:      "09:00",
		EndTime:        "17:00",
		Breaks:         []models.TimeWindow{{Start: "13:00", End: "14:00"}},
	}})
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
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
