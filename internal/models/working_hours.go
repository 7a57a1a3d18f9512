package models

import "time"

// TimeWindow is an "HH:MM" pair as stored in JSON columns.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type WorkingHours struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ProfessionalID uint `gorm:"uniqueIndex:idx_wh_professional_weekday" json:"professional_id"`

	Weekday int `gorm:"uniqueIndex:idx_wh_professional_weekday" json:"weekday"`

	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Breaks    []TimeWindow `gorm:"serializer:json;type:jsonb" json:"breaks"`
	Active    bool         `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ScheduleOverride replaces the weekly entry for one calendar date.
type ScheduleOverride struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ProfessionalID uint   `gorm:"uniqueIndex:idx_override_professional_date" json:"professional_id"`
	Date           string `gorm:"size:10;uniqueIndex:idx_override_professional_date" json:"date"`

	Closed  bool         `json:"closed"`
	Windows []TimeWindow `gorm:"serializer:json;type:jsonb" json:"windows"`
	Breaks  []TimeWindow `gorm:"serializer:json;type:jsonb" json:"breaks"`
	Reason  string       `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
