package amqp

import (
	"encoding/json"
	"time"
)

// BackupEvent asks the worker to append a transaction to the rolling CSV
// backup. It carries only the record ID; the worker reads the full row from
// the database so the event stays small and never goes stale.
type BackupEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBackupEvent creates a backup event for the given transaction ID.
func NewBackupEvent(id int64) *BackupEvent {
	return &BackupEvent{
		ID:        id,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *BackupEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// BackupEventFromJSON creates an event from JSON bytes.
func BackupEventFromJSON(data []byte) (*BackupEvent, error) {
	var e BackupEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
