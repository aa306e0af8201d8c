package models

import "time"

// Prompt is one slide or question within a session. SlideIndex is
// 0-based and kept contiguous per session; it is re-derived on every
// reorder and delete.
type Prompt struct {
	ID         uint          `gorm:"primaryKey" json:"prompt_id"`
	SessionID  uint          `gorm:"not null;index" json:"session_id"`
	SlideIndex int           `gorm:"not null;default:0" json:"slide_index"`
	Kind       string        `gorm:"size:16;not null" json:"kind"`
	Content    PromptContent `gorm:"type:jsonb" json:"content"`
	IsOpen     bool          `gorm:"not null;default:false" json:"is_open"`
	Released   bool          `gorm:"not null;default:false" json:"released"`
	CreatedBy  uint          `gorm:"not null" json:"created_by"`
	CreatedAt  time.Time     `json:"created_at"`
}

const (
	PromptKindMcq       = "mcq"
	PromptKindShortText = "short_text"
	PromptKindLongText  = "long_text"
	PromptKindSlide     = "slide"
)
