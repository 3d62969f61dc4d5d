package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/medicare-be/internal/services"
	"github.com/rs/zerolog/log"
)

// ReminderHandler handles HTTP requests for dose reminders.
type ReminderHandler struct {
	service services.ReminderServiceProvider
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(service services.ReminderServiceProvider) *ReminderHandler {
	return &ReminderHandler{service: service}
}

// ReminderPayload defines the structure for create requests.
type ReminderPayload struct {
	CronExpression string `json:"cronExpression"`
}

// Create handles adding a reminder to a medication.
func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid medication id")
		return
	}

	var payload ReminderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reminder, err := h.service.CreateReminder(medicationID, payload.CronExpression)
	if err != nil {
		log.Warn().Err(err).Int64("medication_id", medicationID).Msg("Failed to create reminder")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

// GetForMedication lists the reminders attached to a medication.
func (h *ReminderHandler) GetForMedication(w http.ResponseWriter, r *http.Request) {
	medicationID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid medication id")
		return
	}

	reminders, err := h.service.GetRemindersForMedication(medicationID)
	if err != nil {
		log.Error().Err(err).Int64("medication_id", medicationID).Msg("Failed to list reminders")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}

// Delete removes a reminder.
func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteReminder(id); err != nil {
		log.Warn().Err(err).Str("reminder_id", id).Msg("Failed to delete reminder")
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
