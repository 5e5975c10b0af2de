package amqp

import (
	"encoding/json"
	"time"
)

// EntrySyncMessage asks the worker to mirror one stored lease entry to the
// Google Sheets table. It carries only the row id and batch id; the worker
// fetches the full entry from the database.
type EntrySyncMessage struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntrySyncMessage(id int64, batchID string) *EntrySyncMessage {
	return &EntrySyncMessage{
		ID:        id,
		BatchID:   batchID,
		Timestamp: time.Now(),
	}
}

func (m *EntrySyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntrySyncMessageFromJSON(data []byte) (*EntrySyncMessage, error) {
	var msg EntrySyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
