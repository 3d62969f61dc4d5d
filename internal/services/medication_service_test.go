package services

import (
	"sync"
	"testing"

	"github.com/isdelr/medicare-be/internal/testutil"
	ws "github.com/isdelr/medicare-be/internal/websocket"
	"github.com/stretchr/testify/require"
)

func newMedicationService(t *testing.T) *MedicationService {
	t.Helper()
	db := testutil.OpenTestDB(t, t.Name())
	hub := ws.NewHub()
	go hub.Run()
	return NewMedicationService(db, NewEventService(db), hub)
}

func TestCreateAndListMedications(t *testing.T) {
	svc := newMedicationService(t)

	med, err := svc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)
	require.Equal(t, int64(1), med.ID)
	require.False(t, med.Taken, "new medications start untaken")

	_, err = svc.CreateMedication("Ibuprofen", "200mg", "twice daily")
	require.NoError(t, err)

	meds, err := svc.GetAllMedications()
	require.NoError(t, err)
	require.Len(t, meds, 2)
	require.Equal(t, "Aspirin", meds[0].Name)
	require.Equal(t, "100mg", meds[0].Dosage)
	require.Equal(t, "daily", meds[0].Frequency)
	require.False(t, meds[0].Taken)
}

func TestCreateMedication_EmptyName(t *testing.T) {
	svc := newMedicationService(t)

	_, err := svc.CreateMedication("", "100mg", "daily")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkTaken(t *testing.T) {
	svc := newMedicationService(t)

	med, err := svc.CreateMedication("Aspirin", "100mg", "daily")
	require.NoError(t, err)

	require.NoError(t, svc.MarkTaken(med.ID))

	got, err := svc.GetMedicationByID(med.ID)
	require.NoError(t, err)
	require.True(t, got.Taken)

	// Idempotent: marking again succeeds and changes nothing.
	require.NoError(t, svc.MarkTaken(med.ID))
	got, err = svc.GetMedicationByID(med.ID)
	require.NoError(t, err)
	require.True(t, got.Taken)
}

func TestMarkTaken_NotFound(t *testing.T) {
	svc := newMedicationService(t)

	require.ErrorIs(t, svc.MarkTaken(99), ErrNotFound)
}

func TestAdherence(t *testing.T) {
	tests := []struct {
		name  string
		total int
		taken int
		want  float64
	}{
		{"empty store", 0, 0, 0},
		{"one of four", 4, 1, 25.00},
		{"all taken", 3, 3, 100.00},
		{"two of three", 3, 2, 66.67},
		{"one of six", 6, 1, 16.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newMedicationService(t)

			for i := 0; i < tt.total; i++ {
				med, err := svc.CreateMedication("Med", "1mg", "daily")
				require.NoError(t, err)
				if i < tt.taken {
					require.NoError(t, svc.MarkTaken(med.ID))
				}
			}

			snap, err := svc.Adherence()
			require.NoError(t, err)
			require.Equal(t, tt.want, snap.Adherence)
			require.Equal(t, tt.total, snap.Total)
			require.Equal(t, tt.taken, snap.Taken)
		})
	}
}

func TestAdherence_ConcurrentMarkTaken(t *testing.T) {
	svc := newMedicationService(t)

	var ids []int64
	for i := 0; i < 20; i++ {
		med, err := svc.CreateMedication("Med", "1mg", "daily")
		require.NoError(t, err)
		ids = append(ids, med.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := svc.MarkTaken(id); err != nil {
				t.Error(err)
			}
		}(id)
	}

	// Snapshots taken mid-update reflect some prefix of the marks, but the
	// figure always stays within [0, 100] and taken never exceeds total.
	for i := 0; i < 50; i++ {
		snap, err := svc.Adherence()
		require.NoError(t, err)
		require.GreaterOrEqual(t, snap.Adherence, 0.0)
		require.LessOrEqual(t, snap.Adherence, 100.0)
		require.LessOrEqual(t, snap.Taken, snap.Total)
	}
	wg.Wait()

	snap, err := svc.Adherence()
	require.NoError(t, err)
	require.Equal(t, 100.00, snap.Adherence)
}
