package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/salon-agenda/internal/config"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		PrepareStmt: true,
	}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Location{},
		&models.Professional{},
		&models.Service{},
		&models.WorkingHours{},
		&models.ScheduleOverride{},
		&models.Client{},
		&models.Appointment{},
		&models.Block{},
		&models.Sale{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	// Two live appointments can never start at the same minute.
	if err := db.Exec(`
        CREATE UNIQUE INDEX IF NOT EXISTS idx_appointment_live_start
        ON appointments (professional_id, date, start_minute)
        WHERE status <> 'cancelled'
    `).Error; err != nil {
		return nil, fmt.Errorf("appointment index: %w", err)
	}

	if err := db.Exec(`
        UPDATE locations
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone).Error; err != nil {
		return nil, fmt.Errorf("default timezone: %w", err)
	}

	return db, nil
}
