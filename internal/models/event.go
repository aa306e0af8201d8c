package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SessionEvent is one entry in the durable per-session event log. Every
// observable state change is appended here inside the mutating request;
// the websocket hub only redistributes committed rows, so a reconnecting
// client can always catch up by id.
type SessionEvent struct {
	ID        uint      `gorm:"primaryKey" json:"event_id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	Type      string    `gorm:"size:32;not null" json:"type"`
	Payload   JSON      `gorm:"type:jsonb" json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	EventSessionStatus    = "session_status"
	EventPromptChanged    = "prompt_changed"
	EventPromptOpenState  = "prompt_open_state"
	EventPromptCreated    = "prompt_created"
	EventPromptDeleted    = "prompt_deleted"
	EventPromptsReordered = "prompts_reordered"
	EventAnswerSubmitted  = "answer_submitted"
	EventMemberJoined     = "member_joined"
	EventMemberLeft       = "member_left"
	EventMessageCreated   = "message_created"
)

// JSON is a raw JSON column usable on both postgres and sqlite.
type JSON json.RawMessage

func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return "null", nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = JSON(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSON", value)
	}
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	*j = append((*j)[0:0], data...)
	return nil
}
