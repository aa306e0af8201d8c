package models

import "time"

// Answer holds exactly one of ChoiceIndex (mcq) or TextAnswer (text
// kinds), decided by the parent prompt's kind at submission time. The
// unique index makes the store reject a second submission atomically.
type Answer struct {
	ID          uint      `gorm:"primaryKey" json:"answer_id"`
	PromptID    uint      `gorm:"not null;uniqueIndex:idx_answer_prompt_user" json:"prompt_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_answer_prompt_user" json:"user_id"`
	ChoiceIndex *int      `json:"choice_index"`
	TextAnswer  *string   `gorm:"type:text" json:"text_answer"`
	CreatedAt   time.Time `json:"created_at"`
}
