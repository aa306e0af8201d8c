package services

import (
	"strings"

	"github.com/boatnoah/lumo/internal/models"

	"gorm.io/gorm"
)

type MessageService struct {
	db     *gorm.DB
	events *EventService
}

func NewMessageService(db *gorm.DB, events *EventService) *MessageService {
	return &MessageService{db: db, events: events}
}

func (s *MessageService) Post(sessionID, userID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, badRequest("message body is required")
	}

	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if !isParticipant(s.db, &session, userID) {
		return nil, forbidden("join the session before chatting")
	}

	message := models.Message{
		SessionID: sessionID,
		UserID:    userID,
		Body:      body,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	s.events.Publish(sessionID, models.EventMessageCreated, message)

	return &message, nil
}

func (s *MessageService) List(sessionID, userID uint) ([]models.Message, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if !isParticipant(s.db, &session, userID) {
		return nil, forbidden("join the session to read the chat")
	}

	var messages []models.Message
	err := s.db.Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
