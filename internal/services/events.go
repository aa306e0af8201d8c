package services

import (
	"encoding/json"
	"errors"

	"github.com/boatnoah/lumo/internal/models"
	"github.com/boatnoah/lumo/internal/ws"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventService is the durable side of real-time sync. Publish appends
// to session_events and only then fans the committed row out on the
// hub, so a client that missed the push can always replay by event id.
type EventService struct {
	db  *gorm.DB
	hub *ws.Hub
	log *zap.Logger
}

func NewEventService(db *gorm.DB, hub *ws.Hub, log *zap.Logger) *EventService {
	return &EventService{db: db, hub: hub, log: log}
}

func (s *EventService) Publish(sessionID uint, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("event payload marshal failed",
			zap.Uint("session_id", sessionID),
			zap.String("type", eventType),
			zap.Error(err))
		return
	}

	event := models.SessionEvent{
		SessionID: sessionID,
		Type:      eventType,
		Payload:   models.JSON(data),
	}
	if err := s.db.Create(&event).Error; err != nil {
		s.log.Error("event append failed",
			zap.Uint("session_id", sessionID),
			zap.String("type", eventType),
			zap.Error(err))
		return
	}

	s.hub.Broadcast(ws.Event{
		EventID:   event.ID,
		SessionID: sessionID,
		Type:      eventType,
		Payload:   json.RawMessage(data),
	})
}

// List replays events after the given id in append order.
func (s *EventService) List(sessionID uint, afterID uint) ([]models.SessionEvent, error) {
	events := make([]models.SessionEvent, 0)
	err := s.db.Where("session_id = ? AND id > ?", sessionID, afterID).
		Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// LastEventID returns the id of the newest event for the session, zero
// when the log is empty.
func (s *EventService) LastEventID(sessionID uint) (uint, error) {
	var event models.SessionEvent
	err := s.db.Where("session_id = ?", sessionID).Order("id DESC").First(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}
