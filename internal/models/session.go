package models

import "time"

type Session struct {
	ID            uint      `gorm:"primaryKey" json:"session_id"`
	OwnerID       uint      `gorm:"not null;index" json:"owner_id"`
	Title         string    `gorm:"size:255;not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Status        string    `gorm:"size:10;not null;default:'draft'" json:"status"`
	JoinCode      string    `gorm:"size:6;uniqueIndex;not null" json:"join_code"`
	CurrentPrompt *uint     `json:"current_prompt"`
	Prompts       []Prompt  `gorm:"foreignKey:SessionID" json:"prompts,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	SessionStatusDraft = "draft"
	SessionStatusLive  = "live"
	SessionStatusEnded = "ended"
)
