package monitoring

import (
	"fmt"
	"time"

	"github.com/isdelr/medicare-be/internal/models"
	"github.com/isdelr/medicare-be/internal/services"
	ws "github.com/isdelr/medicare-be/internal/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler fires due dose reminders.
type Scheduler struct {
	reminderSvc   services.ReminderServiceProvider
	medicationSvc services.MedicationServiceProvider
	eventSvc      services.EventServiceProvider
	hub           *ws.Hub
	ticker        *time.Ticker
	done          chan bool
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(reminderSvc services.ReminderServiceProvider, medicationSvc services.MedicationServiceProvider, eventSvc services.EventServiceProvider, hub *ws.Hub) *Scheduler {
	return &Scheduler{
		reminderSvc:   reminderSvc,
		medicationSvc: medicationSvc,
		eventSvc:      eventSvc,
		hub:           hub,
		done:          make(chan bool),
	}
}

// Run starts the scheduler's ticking loop.
func (s *Scheduler) Run() {
	log.Info().Msg("Starting background reminder scheduler...")
	s.ticker = time.NewTicker(1 * time.Minute)
	defer s.ticker.Stop()

	// Run once immediately on start
	s.checkAndFireReminders()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping background reminder scheduler.")
			return
		case <-s.ticker.C:
			s.checkAndFireReminders()
		}
	}
}

// Stop halts the scheduler.
func (s *Scheduler) Stop() {
	s.done <- true
}

// checkAndFireReminders queries for due reminders and fires them.
func (s *Scheduler) checkAndFireReminders() {
	reminders, err := s.reminderSvc.GetAllActiveReminders()
	if err != nil {
		log.Error().Err(err).Msg("Scheduler: Failed to retrieve active reminders")
		return
	}

	for _, reminder := range reminders {
		cronSchedule, err := cron.ParseStandard(reminder.CronExpression)
		if err != nil {
			log.Error().Err(err).Str("reminder_id", reminder.ID).Msg("Scheduler: Invalid cron expression")
			continue
		}

		now := time.Now()
		// If NextRunAt is in the past, it's time to fire
		if reminder.NextRunAt != nil && now.After(*reminder.NextRunAt) {
			go s.fireReminder(reminder)

			// Update the times for the next run
			nextRun := cronSchedule.Next(now)
			if err := s.reminderSvc.UpdateReminderRunTimes(reminder.ID, now, nextRun); err != nil {
				log.Error().Err(err).Str("reminder_id", reminder.ID).Msg("Scheduler: Failed to update reminder run times")
			}
		}
	}
}

// fireReminder emits the reminder event and pushes it to connected clients.
func (s *Scheduler) fireReminder(reminder models.Reminder) {
	medication, err := s.medicationSvc.GetMedicationByID(reminder.MedicationID)
	if err != nil {
		log.Warn().Err(err).Str("reminder_id", reminder.ID).Int64("medication_id", reminder.MedicationID).
			Msg("Scheduler: Reminder refers to a missing medication")
		return
	}

	msg := fmt.Sprintf("Time to take %s (%s).", medication.Name, medication.Dosage)
	s.eventSvc.CreateEvent("medication.reminder", "info", msg, &medication.ID)
	s.hub.Broadcast <- ws.NewReminderMessage(medication)
	log.Info().Str("medication", medication.Name).Msg("Scheduler: Reminder fired")
}
