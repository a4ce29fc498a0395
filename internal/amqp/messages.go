package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// RemarkAction is what happened to a remark.
type RemarkAction string

const (
	ActionSaved    RemarkAction = "saved"
	ActionDeleted  RemarkAction = "deleted"
	ActionCleared  RemarkAction = "cleared"
	ActionImported RemarkAction = "imported"
)

// RemarkEvent announces a change in the remark store. Row and Column are
// empty for ActionCleared.
type RemarkEvent struct {
	Action    RemarkAction `json:"action"`
	Row       string       `json:"row,omitempty"`
	Column    string       `json:"column,omitempty"`
	Text      string       `json:"text,omitempty"`
	Count     int          `json:"count,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewRemarkEvent stamps an event with the current time.
func NewRemarkEvent(action RemarkAction, row, column, text string) *RemarkEvent {
	return &RemarkEvent{
		Action:    action,
		Row:       row,
		Column:    column,
		Text:      text,
		Timestamp: time.Now(),
	}
}

// Key is the persisted "ROW|Mon-YY" form, or "" for bulk events.
func (e *RemarkEvent) Key() string {
	if e.Row == "" && e.Column == "" {
		return ""
	}
	return e.Row + "|" + e.Column
}

func (e *RemarkEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RemarkEventFromJSON decodes and validates an event.
func RemarkEventFromJSON(data []byte) (*RemarkEvent, error) {
	var e RemarkEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Action {
	case ActionSaved, ActionDeleted, ActionCleared, ActionImported:
	default:
		return nil, fmt.Errorf("unknown remark action %q", e.Action)
	}
	return &e, nil
}
