package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/medicare-be/internal/services"
	"github.com/rs/zerolog/log"
)

// MedicationHandler handles HTTP requests for medication tracking.
type MedicationHandler struct {
	service services.MedicationServiceProvider
}

// NewMedicationHandler creates a new MedicationHandler.
func NewMedicationHandler(service services.MedicationServiceProvider) *MedicationHandler {
	return &MedicationHandler{service: service}
}

// MedicationPayload defines the structure for create requests.
type MedicationPayload struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

// Create handles adding a new medication.
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload MedicationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	med, err := h.service.CreateMedication(payload.Name, payload.Dosage, payload.Frequency)
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create medication")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, med)
}

// GetAll handles retrieving every medication.
func (h *MedicationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	meds, err := h.service.GetAllMedications()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list medications")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, meds)
}

// MarkTaken handles marking a medication as taken.
func (h *MedicationHandler) MarkTaken(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid medication id")
		return
	}

	if err := h.service.MarkTaken(id); err != nil {
		log.Warn().Err(err).Int64("medication_id", id).Msg("Failed to mark medication taken")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Adherence handles the adherence percentage query.
func (h *MedicationHandler) Adherence(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Adherence()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute adherence")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
