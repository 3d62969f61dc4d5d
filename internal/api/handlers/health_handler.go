package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports process and host health.
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Check returns status, uptime and host resource figures.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	}

	// Host stats are informational; failures degrade to omitted fields.
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		resp["cpuPercent"] = percents[0]
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read CPU stats")
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		resp["memoryPercent"] = vm.UsedPercent
	} else {
		log.Warn().Err(err).Msg("Failed to read memory stats")
	}

	writeJSON(w, http.StatusOK, resp)
}
