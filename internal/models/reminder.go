package models

import "time"

// Reminder schedules recurring dose notifications for a medication.
type Reminder struct {
	ID             string     `json:"id"`
	MedicationID   int64      `json:"medicationId"`
	CronExpression string     `json:"cronExpression"` // Standard 5-field cron spec
	IsActive       bool       `json:"isActive"`
	LastRunAt      *time.Time `json:"lastRunAt,omitempty"`
	NextRunAt      *time.Time `json:"nextRunAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
