package models

import "time"

// Message is a chat line. Never updated or deleted except by session
// cascade.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"message_id"`
	SessionID uint      `gorm:"not null;index" json:"session_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
