package models

import "time"

// Medication represents a single tracked medication.
type Medication struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Frequency string    `json:"frequency"` // Free-form, e.g. "twice daily"
	Taken     bool      `json:"taken"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdherenceSnapshot is the on-demand adherence figure, never persisted.
// Adherence is taken/total as a percentage in [0, 100], rounded to two
// decimal places (half away from zero). An empty store yields 0.
type AdherenceSnapshot struct {
	Adherence float64 `json:"adherence"`
	Taken     int     `json:"taken"`
	Total     int     `json:"total"`
}
