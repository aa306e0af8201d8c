package models

import "time"

// Profile carries the onboarding state for a user. Role starts as
// "pending" and is set exactly once before dashboard access.
type Profile struct {
	UserID      uint      `gorm:"primaryKey" json:"user_id"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	Role        string    `gorm:"size:10;not null;default:'pending'" json:"role"`
	Avatar      string    `gorm:"size:255" json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	RolePending = "pending"
	RoleTeacher = "teacher"
	RoleStudent = "student"
)
