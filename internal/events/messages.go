package events

import (
	"encoding/json"
	"time"
)

// Change is the message published after a successful mutation. It carries
// only the entity kind, operation and id; consumers fetch whatever state
// they need from the store.
type Change struct {
	Entity    string    `json:"entity"` // e.g. "transaction", "account"
	Op        string    `json:"op"`     // created | updated | deleted
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChange(entity, op, id string) *Change {
	return &Change{Entity: entity, Op: op, ID: id, Timestamp: time.Now()}
}

func (c *Change) ToJSON() ([]byte, error) {
	return json.Marshal(c)
}

func ChangeFromJSON(data []byte) (*Change, error) {
	var c Change
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
