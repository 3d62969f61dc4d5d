package monitoring

import (
	"testing"
	"time"

	"github.com/isdelr/medicare-be/internal/services"
	"github.com/isdelr/medicare-be/internal/testutil"
	ws "github.com/isdelr/medicare-be/internal/websocket"
	"github.com/stretchr/testify/require"
)

func newUpdaterFixture(t *testing.T) (*AdherenceUpdater, *services.MedicationService, *services.EventService) {
	t.Helper()
	db := testutil.OpenTestDB(t, t.Name())
	hub := ws.NewHub()
	go hub.Run()
	eventSvc := services.NewEventService(db)
	medSvc := services.NewMedicationService(db, eventSvc, hub)
	return NewAdherenceUpdater(medSvc, eventSvc, hub, time.Minute), medSvc, eventSvc
}

func eventTypes(t *testing.T, eventSvc *services.EventService) []string {
	t.Helper()
	events, err := eventSvc.GetRecentEvents(100)
	require.NoError(t, err)
	var types []string
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestPublishSnapshot_LowAdherenceAlert(t *testing.T) {
	updater, medSvc, eventSvc := newUpdaterFixture(t)

	_, err := medSvc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)
	_, err = medSvc.CreateMedication("Ibuprofen", "200mg", "daily")
	require.NoError(t, err)

	// 0 of 2 taken is below the alert threshold.
	updater.publishSnapshot()
	require.Contains(t, eventTypes(t, eventSvc), "adherence.low")

	// A second snapshot inside the cooldown window does not alert again.
	updater.publishSnapshot()
	count := 0
	for _, typ := range eventTypes(t, eventSvc) {
		if typ == "adherence.low" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestPublishSnapshot_NoAlertCases(t *testing.T) {
	t.Run("empty store", func(t *testing.T) {
		updater, _, eventSvc := newUpdaterFixture(t)

		updater.publishSnapshot()
		require.NotContains(t, eventTypes(t, eventSvc), "adherence.low")
	})

	t.Run("adherence above threshold", func(t *testing.T) {
		updater, medSvc, eventSvc := newUpdaterFixture(t)

		med, err := medSvc.CreateMedication("Aspirin", "100mg", "daily")
		require.NoError(t, err)
		require.NoError(t, medSvc.MarkTaken(med.ID))

		updater.publishSnapshot()
		require.NotContains(t, eventTypes(t, eventSvc), "adherence.low")
	})
}
