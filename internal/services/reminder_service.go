package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/medicare-be/internal/models"
	"github.com/robfig/cron/v3"
)

// ReminderServiceProvider defines the interface for reminder services.
type ReminderServiceProvider interface {
	CreateReminder(medicationID int64, cronExpression string) (models.Reminder, error)
	GetRemindersForMedication(medicationID int64) ([]models.Reminder, error)
	GetAllActiveReminders() ([]models.Reminder, error)
	DeleteReminder(id string) error
	UpdateReminderRunTimes(id string, lastRun, nextRun time.Time) error
}

// ReminderService provides business logic for dose reminders.
type ReminderService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
}

// NewReminderService creates a new ReminderService.
func NewReminderService(db *sql.DB, eventSvc EventServiceProvider) *ReminderService {
	return &ReminderService{db: db, eventSvc: eventSvc}
}

// CreateReminder validates the cron expression, confirms the medication
// exists, and stores the reminder with its first next_run_at.
func (s *ReminderService) CreateReminder(medicationID int64, cronExpression string) (models.Reminder, error) {
	schedule, err := cron.ParseStandard(cronExpression)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("%w: invalid cron expression: %v", ErrInvalidInput, err)
	}

	var exists int64
	row := s.db.QueryRow("SELECT id FROM medications WHERE id = ?", medicationID)
	if err := row.Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reminder{}, ErrNotFound
		}
		return models.Reminder{}, storageErr("select medication", err)
	}

	nextRun := schedule.Next(time.Now())
	reminder := models.Reminder{
		ID:             uuid.New().String(),
		MedicationID:   medicationID,
		CronExpression: cronExpression,
		IsActive:       true,
		NextRunAt:      &nextRun,
	}

	_, err = s.db.Exec(`
		INSERT INTO reminders (id, medication_id, cron_expression, is_active, next_run_at)
		VALUES (?, ?, ?, ?, ?)`,
		reminder.ID, reminder.MedicationID, reminder.CronExpression, reminder.IsActive, reminder.NextRunAt)
	if err != nil {
		return models.Reminder{}, storageErr("insert reminder", err)
	}

	s.eventSvc.CreateEvent("reminder.create", "info", fmt.Sprintf("Reminder '%s' created.", cronExpression), &medicationID)
	return s.getReminderByID(reminder.ID)
}

// GetRemindersForMedication retrieves all reminders for one medication.
func (s *ReminderService) GetRemindersForMedication(medicationID int64) ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, medication_id, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM reminders WHERE medication_id = ? ORDER BY created_at DESC`, medicationID)
	if err != nil {
		return nil, storageErr("select reminders", err)
	}
	defer rows.Close()
	return s.scanReminders(rows)
}

// GetAllActiveReminders retrieves every active reminder.
func (s *ReminderService) GetAllActiveReminders() ([]models.Reminder, error) {
	rows, err := s.db.Query(`
		SELECT id, medication_id, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM reminders WHERE is_active = TRUE`)
	if err != nil {
		return nil, storageErr("select reminders", err)
	}
	defer rows.Close()
	return s.scanReminders(rows)
}

// DeleteReminder removes a reminder.
func (s *ReminderService) DeleteReminder(id string) error {
	res, err := s.db.Exec("DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return storageErr("delete reminder", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("delete reminder", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateReminderRunTimes records a firing and the next due instant.
func (s *ReminderService) UpdateReminderRunTimes(id string, lastRun, nextRun time.Time) error {
	_, err := s.db.Exec("UPDATE reminders SET last_run_at = ?, next_run_at = ? WHERE id = ?", lastRun, nextRun, id)
	if err != nil {
		return storageErr("update reminder", err)
	}
	return nil
}

func (s *ReminderService) getReminderByID(id string) (models.Reminder, error) {
	row := s.db.QueryRow(`
		SELECT id, medication_id, cron_expression, is_active, last_run_at, next_run_at, created_at
		FROM reminders WHERE id = ?`, id)

	var r models.Reminder
	err := row.Scan(&r.ID, &r.MedicationID, &r.CronExpression, &r.IsActive, &r.LastRunAt, &r.NextRunAt, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reminder{}, ErrNotFound
		}
		return models.Reminder{}, storageErr("select reminder", err)
	}
	return r, nil
}

func (s *ReminderService) scanReminders(rows *sql.Rows) ([]models.Reminder, error) {
	var reminders []models.Reminder
	for rows.Next() {
		var r models.Reminder
		if err := rows.Scan(&r.ID, &r.MedicationID, &r.CronExpression, &r.IsActive, &r.LastRunAt, &r.NextRunAt, &r.CreatedAt); err != nil {
			return nil, storageErr("scan reminder", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
