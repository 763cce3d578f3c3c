package amqp

import (
	"encoding/json"
	"time"
)

// TemplateRegisteredMessage tells the worker a recurring template was
// created or changed. It carries only the transaction id; the worker
// fetches the full template from the database so the message never goes
// stale.
type TemplateRegisteredMessage struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        int64     `json:"user_id"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTemplateRegisteredMessage(transactionID, userID int64) *TemplateRegisteredMessage {
	return &TemplateRegisteredMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Timestamp:     time.Now(),
	}
}

func (m *TemplateRegisteredMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TemplateRegisteredMessageFromJSON(data []byte) (*TemplateRegisteredMessage, error) {
	var msg TemplateRegisteredMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
