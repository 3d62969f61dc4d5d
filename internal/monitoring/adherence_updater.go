package monitoring

import (
	"fmt"
	"time"

	"github.com/isdelr/medicare-be/internal/services"
	ws "github.com/isdelr/medicare-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// AdherenceUpdater periodically recomputes the adherence snapshot, pushes it
// to connected clients and raises an alert event when adherence stays low.
type AdherenceUpdater struct {
	medicationSvc services.MedicationServiceProvider
	eventSvc      services.EventServiceProvider
	hub           *ws.Hub
	interval      time.Duration
	ticker        *time.Ticker
	done          chan bool
	lastLowAlert  time.Time
}

// NewAdherenceUpdater creates a new AdherenceUpdater.
func NewAdherenceUpdater(medicationSvc services.MedicationServiceProvider, eventSvc services.EventServiceProvider, hub *ws.Hub, interval time.Duration) *AdherenceUpdater {
	return &AdherenceUpdater{
		medicationSvc: medicationSvc,
		eventSvc:      eventSvc,
		hub:           hub,
		interval:      interval,
		done:          make(chan bool),
	}
}

// Run starts the periodic updates.
func (au *AdherenceUpdater) Run() {
	log.Info().Dur("interval", au.interval).Msg("Starting background adherence updater...")
	au.ticker = time.NewTicker(au.interval)
	defer au.ticker.Stop()

	// Run once immediately on start
	au.publishSnapshot()

	for {
		select {
		case <-au.done:
			log.Info().Msg("Stopping background adherence updater.")
			return
		case <-au.ticker.C:
			au.publishSnapshot()
		}
	}
}

// Stop halts the periodic updates.
func (au *AdherenceUpdater) Stop() {
	au.done <- true
}

// publishSnapshot computes the current adherence and broadcasts it.
func (au *AdherenceUpdater) publishSnapshot() {
	snapshot, err := au.medicationSvc.Adherence()
	if err != nil {
		log.Error().Err(err).Msg("AdherenceUpdater: Failed to compute adherence")
		return
	}

	au.hub.Broadcast <- ws.NewAdherenceMessage(snapshot)
	au.checkAndAlertForLowAdherence(snapshot.Adherence, snapshot.Total)
}

func (au *AdherenceUpdater) checkAndAlertForLowAdherence(adherence float64, total int) {
	const lowAdherenceThreshold = 50.0
	const alertCooldown = 15 * time.Minute

	if total == 0 || adherence >= lowAdherenceThreshold {
		return
	}
	if time.Since(au.lastLowAlert) < alertCooldown {
		return
	}

	msg := fmt.Sprintf("Medication adherence is low (%.2f%%).", adherence)
	au.eventSvc.CreateEvent("adherence.low", "warn", msg, nil)
	au.lastLowAlert = time.Now()
}
