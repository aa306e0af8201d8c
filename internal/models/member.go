package models

import "time"

// SessionMember records one stretch of participation. At most one row
// per (session, user) has LeftAt null; joining closes any prior open
// row before inserting a fresh one.
type SessionMember struct {
	ID        uint       `gorm:"primaryKey" json:"member_id"`
	SessionID uint       `gorm:"not null;index:idx_member_session_user" json:"session_id"`
	UserID    uint       `gorm:"not null;index:idx_member_session_user" json:"user_id"`
	JoinedAt  time.Time  `json:"joined_at"`
	LeftAt    *time.Time `json:"left_at"`
}
