package monitoring

import (
	"testing"
	"time"

	"github.com/isdelr/medicare-be/internal/services"
	"github.com/isdelr/medicare-be/internal/testutil"
	ws "github.com/isdelr/medicare-be/internal/websocket"
	"github.com/stretchr/testify/require"
)

func newSchedulerFixture(t *testing.T) (*Scheduler, *services.ReminderService, *services.MedicationService, *services.EventService) {
	t.Helper()
	db := testutil.OpenTestDB(t, t.Name())
	hub := ws.NewHub()
	go hub.Run()
	eventSvc := services.NewEventService(db)
	medSvc := services.NewMedicationService(db, eventSvc, hub)
	reminderSvc := services.NewReminderService(db, eventSvc)
	return NewScheduler(reminderSvc, medSvc, eventSvc, hub), reminderSvc, medSvc, eventSvc
}

func TestFireReminder(t *testing.T) {
	scheduler, reminderSvc, medSvc, eventSvc := newSchedulerFixture(t)

	med, err := medSvc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)
	reminder, err := reminderSvc.CreateReminder(med.ID, "0 9 * * *")
	require.NoError(t, err)

	scheduler.fireReminder(reminder)

	events, err := eventSvc.GetRecentEvents(10)
	require.NoError(t, err)
	found := false
	for _, e := range events {
		if e.Type == "medication.reminder" {
			found = true
			require.NotNil(t, e.MedicationID)
			require.Equal(t, med.ID, *e.MedicationID)
			require.Contains(t, e.Message, "Aspirin")
		}
	}
	require.True(t, found, "firing must record a medication.reminder event")
}

func TestCheckAndFireReminders_AdvancesRunTimes(t *testing.T) {
	scheduler, reminderSvc, medSvc, _ := newSchedulerFixture(t)

	med, err := medSvc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)
	reminder, err := reminderSvc.CreateReminder(med.ID, "* * * * *")
	require.NoError(t, err)

	// Force the reminder overdue.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, reminderSvc.UpdateReminderRunTimes(reminder.ID, past, past))

	scheduler.checkAndFireReminders()

	reminders, err := reminderSvc.GetRemindersForMedication(med.ID)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	require.NotNil(t, reminders[0].NextRunAt)
	require.True(t, reminders[0].NextRunAt.After(time.Now()), "next run must be rescheduled into the future")
	require.NotNil(t, reminders[0].LastRunAt)
	require.WithinDuration(t, time.Now(), *reminders[0].LastRunAt, 5*time.Second)
}

func TestCheckAndFireReminders_SkipsFutureReminders(t *testing.T) {
	scheduler, reminderSvc, medSvc, eventSvc := newSchedulerFixture(t)

	med, err := medSvc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)
	reminder, err := reminderSvc.CreateReminder(med.ID, "0 9 * * *")
	require.NoError(t, err)
	before := *reminder.NextRunAt

	scheduler.checkAndFireReminders()

	reminders, err := reminderSvc.GetRemindersForMedication(med.ID)
	require.NoError(t, err)
	require.WithinDuration(t, before, *reminders[0].NextRunAt, time.Second)

	events, err := eventSvc.GetRecentEvents(10)
	require.NoError(t, err)
	for _, e := range events {
		require.NotEqual(t, "medication.reminder", e.Type)
	}
}
