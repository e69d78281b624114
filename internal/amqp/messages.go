package amqp

import (
	"encoding/json"
	"errors"
	"time"

	"fincoach/internal/core"
)

// Transaction event kinds.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
)

var errInvalidEvent = errors.New("invalid transaction event")

// TransactionEvent announces a change to one user's transactions. The worker
// reloads the user's snapshot, so the event carries identifiers only.
type TransactionEvent struct {
	UserID        int64     `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Kind          string    `json:"kind"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(userID int64, transactionID, kind string) *TransactionEvent {
	return &TransactionEvent{
		UserID:        userID,
		TransactionID: transactionID,
		Kind:          kind,
		Timestamp:     time.Now().UTC(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionEventFromJSON decodes and checks an event body.
func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.UserID <= 0 || msg.Kind == "" {
		return nil, errInvalidEvent
	}
	return &msg, nil
}

// AlertMessage is the wire form of a core.Alert on the alerts queue.
type AlertMessage struct {
	Type      core.AlertType `json:"type"`
	UserID    string         `json:"user_id"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewAlertMessage(a core.Alert) *AlertMessage {
	return &AlertMessage{
		Type:      a.Type,
		UserID:    a.UserID,
		Message:   a.Message,
		Data:      a.Data,
		Timestamp: time.Now().UTC(),
	}
}

func (m *AlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AlertMessageFromJSON(data []byte) (*AlertMessage, error) {
	var msg AlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
