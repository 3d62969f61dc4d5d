package websocket

import (
	"encoding/json"

	"github.com/isdelr/medicare-be/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

func mustMarshal(msg Message) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		// Message payloads are plain structs and maps; this cannot fail.
		panic(err)
	}
	return b
}

// NewMedicationTakenMessage announces that a medication was marked taken.
func NewMedicationTakenMessage(medicationID int64) []byte {
	return mustMarshal(Message{
		Action:  "medication_taken",
		Payload: map[string]int64{"medicationId": medicationID},
	})
}

// NewReminderMessage announces that a dose reminder fired.
func NewReminderMessage(medication models.Medication) []byte {
	return mustMarshal(Message{
		Action:  "medication_reminder",
		Payload: medication,
	})
}

// NewAdherenceMessage carries a fresh adherence snapshot.
func NewAdherenceMessage(snapshot models.AdherenceSnapshot) []byte {
	return mustMarshal(Message{
		Action:  "adherence_update",
		Payload: snapshot,
	})
}

// NewErrorMessage reports a client-facing websocket error.
func NewErrorMessage(text string) []byte {
	return mustMarshal(Message{
		Action:  "error",
		Payload: map[string]string{"message": text},
	})
}
