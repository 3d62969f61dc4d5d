package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/isdelr/medicare-be/internal/models"
	ws "github.com/isdelr/medicare-be/internal/websocket"
)

// MedicationServiceProvider defines the interface for medication services.
type MedicationServiceProvider interface {
	CreateMedication(name, dosage, frequency string) (models.Medication, error)
	GetAllMedications() ([]models.Medication, error)
	GetMedicationByID(id int64) (models.Medication, error)
	MarkTaken(id int64) error
	Adherence() (models.AdherenceSnapshot, error)
}

// MedicationService provides business logic for medication tracking.
type MedicationService struct {
	db       *sql.DB
	eventSvc EventServiceProvider
	hub      *ws.Hub
}

// NewMedicationService creates a new MedicationService.
func NewMedicationService(db *sql.DB, eventSvc EventServiceProvider, hub *ws.Hub) *MedicationService {
	return &MedicationService{db: db, eventSvc: eventSvc, hub: hub}
}

// CreateMedication inserts a new medication with taken=false.
func (s *MedicationService) CreateMedication(name, dosage, frequency string) (models.Medication, error) {
	if name == "" {
		return models.Medication{}, ErrInvalidInput
	}

	res, err := s.db.Exec("INSERT INTO medications (name, dosage, frequency) VALUES (?, ?, ?)", name, dosage, frequency)
	if err != nil {
		return models.Medication{}, storageErr("insert medication", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Medication{}, storageErr("insert medication", err)
	}

	med := models.Medication{ID: id, Name: name, Dosage: dosage, Frequency: frequency}
	s.eventSvc.CreateEvent("medication.created", "info", fmt.Sprintf("Medication '%s' added.", name), &med.ID)
	return med, nil
}

// GetAllMedications retrieves all medications.
func (s *MedicationService) GetAllMedications() ([]models.Medication, error) {
	rows, err := s.db.Query("SELECT id, name, dosage, frequency, taken, created_at FROM medications ORDER BY id")
	if err != nil {
		return nil, storageErr("select medications", err)
	}
	defer rows.Close()

	var meds []models.Medication
	for rows.Next() {
		var med models.Medication
		if err := rows.Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.Taken, &med.CreatedAt); err != nil {
			return nil, storageErr("scan medication", err)
		}
		meds = append(meds, med)
	}
	return meds, rows.Err()
}

// GetMedicationByID retrieves a single medication.
func (s *MedicationService) GetMedicationByID(id int64) (models.Medication, error) {
	var med models.Medication
	row := s.db.QueryRow("SELECT id, name, dosage, frequency, taken, created_at FROM medications WHERE id = ?", id)
	err := row.Scan(&med.ID, &med.Name, &med.Dosage, &med.Frequency, &med.Taken, &med.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Medication{}, ErrNotFound
		}
		return models.Medication{}, storageErr("select medication", err)
	}
	return med, nil
}

// MarkTaken flips a medication's taken flag to true. Marking an already-taken
// medication is a no-op success; a missing id is ErrNotFound.
func (s *MedicationService) MarkTaken(id int64) error {
	res, err := s.db.Exec("UPDATE medications SET taken = 1 WHERE id = ?", id)
	if err != nil {
		return storageErr("update medication", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return storageErr("update medication", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.eventSvc.CreateEvent("medication.taken", "info", fmt.Sprintf("Medication %d marked as taken.", id), &id)
	s.hub.Broadcast <- ws.NewMedicationTakenMessage(id)
	return nil
}

// Adherence computes the taken/total percentage. Both counts come from a
// single statement so a concurrent MarkTaken can never yield taken > total.
func (s *MedicationService) Adherence() (models.AdherenceSnapshot, error) {
	var total, taken int
	row := s.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(taken), 0) FROM medications")
	if err := row.Scan(&total, &taken); err != nil {
		return models.AdherenceSnapshot{}, storageErr("count medications", err)
	}

	snap := models.AdherenceSnapshot{Taken: taken, Total: total}
	if total > 0 {
		snap.Adherence = math.Round(float64(taken)/float64(total)*100*100) / 100
	}
	return snap, nil
}
