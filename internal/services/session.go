package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/boatnoah/lumo/internal/models"
	"github.com/boatnoah/lumo/internal/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const joinCodeAttempts = 10

type SessionService struct {
	db     *gorm.DB
	store  storage.Store
	events *EventService
	log    *zap.Logger
}

func NewSessionService(db *gorm.DB, store storage.Store, events *EventService, log *zap.Logger) *SessionService {
	return &SessionService{db: db, store: store, events: events, log: log}
}

// Create inserts a draft session with a fresh 6-digit join code. The
// code column is unique; a collision retries the draw, bounded at ten
// attempts.
func (s *SessionService) Create(ownerID uint) (*models.Session, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		session := models.Session{
			OwnerID:  ownerID,
			Title:    "Untitled session",
			Status:   models.SessionStatusDraft,
			JoinCode: generateJoinCode(),
		}
		err := s.db.Create(&session).Error
		if err == nil {
			return &session, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	return nil, ErrJoinCodeExhausted
}

func generateJoinCode() string {
	return fmt.Sprintf("%06d", 100000+rand.Intn(900000))
}

func (s *SessionService) List(ownerID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *SessionService) Get(sessionID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

// getOwned loads the session and enforces ownership.
func (s *SessionService) getOwned(sessionID, callerID uint) (*models.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return session, nil
}

// GetParticipant loads the session for its owner or an open member.
// State and the event log carry the join code and chat bodies, so they
// are gated the same way the chat endpoints are.
func (s *SessionService) GetParticipant(sessionID, callerID uint) (*models.Session, error) {
	session, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !isParticipant(s.db, session, callerID) {
		return nil, ErrNotParticipant
	}
	return session, nil
}

type SessionState struct {
	Session       models.Session `json:"session"`
	CurrentPrompt *models.Prompt `json:"prompt,omitempty"`
	MemberCount   int64          `json:"member_count"`
	LastEventID   uint           `json:"last_event_id"`
}

// State is the durable reconstruction point for clients: everything a
// reconnecting student or teacher needs to re-render without having
// been connected at broadcast time. Participants only.
func (s *SessionService) State(sessionID, callerID uint) (*SessionState, error) {
	session, err := s.GetParticipant(sessionID, callerID)
	if err != nil {
		return nil, err
	}

	state := &SessionState{Session: *session}

	if session.CurrentPrompt != nil {
		var prompt models.Prompt
		if err := s.db.Where("id = ? AND session_id = ?", *session.CurrentPrompt, session.ID).
			First(&prompt).Error; err == nil {
			state.CurrentPrompt = &prompt
		}
	}

	s.db.Model(&models.SessionMember{}).
		Where("session_id = ? AND left_at IS NULL", sessionID).
		Count(&state.MemberCount)

	lastID, err := s.events.LastEventID(sessionID)
	if err != nil {
		return nil, err
	}
	state.LastEventID = lastID

	return state, nil
}

type StatusUpdate struct {
	Status        *string
	CurrentPrompt *uint
	HasCurrent    bool
}

// UpdateStatus changes status and/or the current prompt. Going live
// requires a resolvable current prompt; ended is terminal, clears the
// current prompt and closes every prompt server-side.
func (s *SessionService) UpdateStatus(sessionID, callerID uint, callerRole string, update StatusUpdate) (*models.Session, error) {
	if callerRole != models.RoleTeacher {
		return nil, ErrTeachersOnly
	}

	session, err := s.getOwned(sessionID, callerID)
	if err != nil {
		return nil, err
	}

	if update.Status == nil && !update.HasCurrent {
		return nil, badRequest("provide a status or a current prompt")
	}

	if session.Status == models.SessionStatusEnded {
		return nil, ErrSessionEnded
	}

	nextStatus := session.Status
	if update.Status != nil {
		switch *update.Status {
		case models.SessionStatusDraft, models.SessionStatusLive, models.SessionStatusEnded:
			nextStatus = *update.Status
		default:
			return nil, badRequest("invalid status")
		}
	}

	nextCurrent := session.CurrentPrompt
	promptChanged := false
	if update.HasCurrent {
		if update.CurrentPrompt != nil {
			var prompt models.Prompt
			if err := s.db.Where("id = ? AND session_id = ?", *update.CurrentPrompt, sessionID).
				First(&prompt).Error; err != nil {
				return nil, badRequest("that prompt does not belong to this session")
			}
		}
		nextCurrent = update.CurrentPrompt
		promptChanged = true
	}

	if nextStatus == models.SessionStatusLive && nextCurrent == nil {
		return nil, ErrNoCurrentPrompt
	}

	if nextStatus == models.SessionStatusEnded {
		nextCurrent = nil
		promptChanged = session.CurrentPrompt != nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":         nextStatus,
			"current_prompt": nextCurrent,
		}
		if err := tx.Model(&models.Session{}).Where("id = ?", sessionID).
			Updates(updates).Error; err != nil {
			return err
		}
		if nextStatus == models.SessionStatusEnded {
			return tx.Model(&models.Prompt{}).
				Where("session_id = ?", sessionID).
				Update("is_open", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	statusChanged := session.Status != nextStatus
	session.Status = nextStatus
	session.CurrentPrompt = nextCurrent

	if statusChanged {
		s.events.Publish(sessionID, models.EventSessionStatus, map[string]interface{}{
			"status": nextStatus,
		})
	}
	if promptChanged {
		var payload interface{}
		if nextCurrent != nil {
			var prompt models.Prompt
			if err := s.db.First(&prompt, *nextCurrent).Error; err == nil {
				payload = prompt
			}
		}
		s.events.Publish(sessionID, models.EventPromptChanged, map[string]interface{}{
			"current_prompt": nextCurrent,
			"prompt":         payload,
		})
	}

	return session, nil
}

// UpdateDetails edits title/description (owner only).
func (s *SessionService) UpdateDetails(sessionID, callerID uint, title, description *string) (*models.Session, error) {
	session, err := s.getOwned(sessionID, callerID)
	if err != nil {
		return nil, err
	}

	if title != nil && *title != "" {
		session.Title = *title
	}
	if description != nil {
		session.Description = *description
	}
	if err := s.db.Save(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes the session and everything hanging off it: answers,
// messages, prompts, memberships, events, and every stored slide asset.
// Steps run inside one transaction; asset removal happens after commit
// and is logged, not compensated, when it fails.
func (s *SessionService) Delete(ctx context.Context, sessionID, callerID uint, callerRole string) error {
	if callerRole != models.RoleTeacher {
		return ErrTeachersOnly
	}

	session, err := s.getOwned(sessionID, callerID)
	if err != nil {
		return err
	}

	var prompts []models.Prompt
	if err := s.db.Where("session_id = ?", sessionID).Find(&prompts).Error; err != nil {
		return err
	}

	promptIDs := make([]uint, 0, len(prompts))
	assetPaths := make([]string, 0)
	for _, prompt := range prompts {
		promptIDs = append(promptIDs, prompt.ID)
		if prompt.Kind == models.PromptKindSlide && prompt.Content.Slide != nil {
			if path := prompt.Content.Slide.AssetPath; path != "" {
				assetPaths = append(assetPaths, path)
			}
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(promptIDs) > 0 {
			if err := tx.Where("prompt_id IN ?", promptIDs).Delete(&models.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Prompt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.SessionEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Session{}, session.ID).Error
	})
	if err != nil {
		return err
	}

	// Anything else under the session's prefix (uploaded but never
	// attached) goes too.
	prefix := fmt.Sprintf("%d", sessionID)
	if stored, err := s.store.List(ctx, prefix); err == nil {
		assetPaths = append(assetPaths, stored...)
	}
	if len(assetPaths) > 0 {
		if err := s.store.Remove(ctx, dedupe(assetPaths)...); err != nil {
			s.log.Warn("session asset cleanup failed",
				zap.Uint("session_id", sessionID),
				zap.Error(err))
		}
	}

	return nil
}

func dedupe(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := paths[:0]
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
