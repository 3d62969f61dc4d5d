package services

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/isdelr/medicare-be/internal/models"
	"github.com/rs/zerolog/log"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(eventType, level, message string, medicationID *int64) error
	GetRecentEvents(limit int) ([]models.Event, error)
}

// EventService provides business logic for the activity log.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// CreateEvent logs a new event to the database. Event writes are best
// effort from callers' point of view; failures are logged, not propagated
// into the operation that triggered them.
func (s *EventService) CreateEvent(eventType, level, message string, medicationID *int64) error {
	event := models.Event{
		ID:           uuid.New().String(),
		Type:         eventType,
		Level:        level,
		Message:      message,
		MedicationID: medicationID,
	}

	_, err := s.db.Exec("INSERT INTO events (id, type, level, message, medication_id) VALUES (?, ?, ?, ?, ?)",
		event.ID, event.Type, event.Level, event.Message, event.MedicationID)
	if err != nil {
		log.Error().Err(err).Str("type", eventType).Msg("Failed to record event")
		return storageErr("insert event", err)
	}
	return nil
}

// GetRecentEvents retrieves the most recent events from the database.
func (s *EventService) GetRecentEvents(limit int) ([]models.Event, error) {
	rows, err := s.db.Query("SELECT id, type, level, message, medication_id, created_at FROM events ORDER BY created_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, storageErr("select events", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.Level, &event.Message, &event.MedicationID, &event.CreatedAt); err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
