package services

import (
	"time"

	"github.com/boatnoah/lumo/internal/models"

	"gorm.io/gorm"
)

type MemberService struct {
	db     *gorm.DB
	events *EventService
}

func NewMemberService(db *gorm.DB, events *EventService) *MemberService {
	return &MemberService{db: db, events: events}
}

// isParticipant: the session owner or any user with an open membership.
func isParticipant(db *gorm.DB, session *models.Session, userID uint) bool {
	if session.OwnerID == userID {
		return true
	}
	var count int64
	db.Model(&models.SessionMember{}).
		Where("session_id = ? AND user_id = ? AND left_at IS NULL", session.ID, userID).
		Count(&count)
	return count > 0
}

type JoinResult struct {
	SessionID     uint      `json:"session_id"`
	Title         string    `json:"title"`
	Status        string    `json:"status"`
	JoinCode      string    `json:"join_code"`
	CurrentPrompt *uint     `json:"current_prompt"`
	MemberID      uint      `json:"member_id"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Join matches a 6-digit code against a live session, closes any open
// membership the student still has there, then opens a fresh one. The
// close-then-open keeps "at most one open row per (session, user)"
// across join/leave/join sequences.
func (s *MemberService) Join(code string, userID uint, userRole string) (*JoinResult, error) {
	if userRole != models.RoleStudent {
		return nil, forbidden("only students can join sessions")
	}

	var session models.Session
	if err := s.db.Where("join_code = ?", code).First(&session).Error; err != nil {
		return nil, notFound("we couldn't find a session with that code")
	}

	if session.Status != models.SessionStatusLive {
		return nil, ErrSessionNotLive
	}

	now := time.Now()

	err := s.db.Model(&models.SessionMember{}).
		Where("session_id = ? AND user_id = ? AND left_at IS NULL", session.ID, userID).
		Update("left_at", now).Error
	if err != nil {
		return nil, err
	}

	member := models.SessionMember{
		SessionID: session.ID,
		UserID:    userID,
		JoinedAt:  now,
	}
	if err := s.db.Create(&member).Error; err != nil {
		return nil, err
	}

	s.events.Publish(session.ID, models.EventMemberJoined, map[string]interface{}{
		"member_id": member.ID,
		"user_id":   userID,
	})

	return &JoinResult{
		SessionID:     session.ID,
		Title:         session.Title,
		Status:        session.Status,
		JoinCode:      session.JoinCode,
		CurrentPrompt: session.CurrentPrompt,
		MemberID:      member.ID,
		JoinedAt:      member.JoinedAt,
	}, nil
}

// Leave closes the caller's open membership without opening a new one.
func (s *MemberService) Leave(sessionID, userID uint, userRole string) (*models.SessionMember, error) {
	if userRole != models.RoleStudent {
		return nil, forbidden("only students can leave sessions")
	}

	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}

	var member models.SessionMember
	err := s.db.Where("session_id = ? AND user_id = ? AND left_at IS NULL", sessionID, userID).
		First(&member).Error
	if err != nil {
		return nil, ErrNotInSession
	}

	now := time.Now()
	member.LeftAt = &now
	if err := s.db.Save(&member).Error; err != nil {
		return nil, err
	}

	s.events.Publish(sessionID, models.EventMemberLeft, map[string]interface{}{
		"member_id": member.ID,
		"user_id":   userID,
	})

	return &member, nil
}

// ListOpen returns current members, owner only.
func (s *MemberService) ListOpen(sessionID, callerID uint) ([]models.SessionMember, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	var members []models.SessionMember
	err := s.db.Where("session_id = ? AND left_at IS NULL", sessionID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
