package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-agenda/internal/models"
)

// Sink persists one audit event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Logger is the gorm-backed Sink.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	source := ev.Source
	if source == "" {
		source = SourceAPI
	}

	log := models.AuditLog{
		LocationID: ev.LocationID,
		ActorID:    ev.ActorID,
		Source:     source,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	}

	return l.db.WithContext(ctx).Create(&log).Error
}
