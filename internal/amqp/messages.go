package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExpenseRecordedMessage announces a newly stored expense. It carries only the
// row id; the worker loads the row itself.
type ExpenseRecordedMessage struct {
	MessageID  string    `json:"message_id"`
	ExpenseID  int64     `json:"expense_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

func NewExpenseRecordedMessage(expenseID int64) *ExpenseRecordedMessage {
	return &ExpenseRecordedMessage{
		MessageID:  uuid.NewString(),
		ExpenseID:  expenseID,
		RecordedAt: time.Now().UTC(),
	}
}

func (m *ExpenseRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseRecordedMessageFromJSON decodes and sanity checks a message body.
func ExpenseRecordedMessageFromJSON(data []byte) (*ExpenseRecordedMessage, error) {
	var msg ExpenseRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ExpenseID <= 0 {
		return nil, fmt.Errorf("invalid expense id %d", msg.ExpenseID)
	}
	return &msg, nil
}
