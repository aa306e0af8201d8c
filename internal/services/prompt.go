package services

import (
	"github.com/boatnoah/lumo/internal/models"

	"gorm.io/gorm"
)

type PromptService struct {
	db     *gorm.DB
	events *EventService
}

func NewPromptService(db *gorm.DB, events *EventService) *PromptService {
	return &PromptService{db: db, events: events}
}

func (s *PromptService) ownedSession(sessionID, callerID uint) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return &session, nil
}

// List returns the session's prompts in slide order, owner only.
func (s *PromptService) List(sessionID, callerID uint) ([]models.Prompt, error) {
	if _, err := s.ownedSession(sessionID, callerID); err != nil {
		return nil, err
	}

	var prompts []models.Prompt
	err := s.db.Where("session_id = ?", sessionID).
		Order("slide_index ASC").
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

type PromptInput struct {
	Kind         string
	SlideIndex   *int
	Title        string
	Detail       string
	Question     string
	Options      []string
	CorrectIndex *int
	Prompt       string
	CharLimit    *int
	WordLimit    *int
}

var defaultTitles = map[string]string{
	models.PromptKindMcq:       "New multiple choice prompt",
	models.PromptKindShortText: "New short response prompt",
	models.PromptKindLongText:  "New long response prompt",
	models.PromptKindSlide:     "New slide",
}

var defaultDetails = map[string]string{
	models.PromptKindMcq:       "Add options and customize your question.",
	models.PromptKindShortText: "Describe what students should answer.",
	models.PromptKindLongText:  "Describe what students should write about.",
	models.PromptKindSlide:     "Upload supporting materials or add talking points.",
}

// Create appends (or inserts at a requested index) a prompt for the
// owning teacher. Content is built per kind; an out-of-range MCQ
// correct index clamps to null.
func (s *PromptService) Create(sessionID, callerID uint, callerRole string, input PromptInput) (*models.Prompt, error) {
	if callerRole != models.RoleTeacher {
		return nil, ErrTeachersOnly
	}
	if _, err := s.ownedSession(sessionID, callerID); err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = defaultTitles[input.Kind]
	}
	detail := input.Detail
	if detail == "" {
		detail = defaultDetails[input.Kind]
	}

	var content models.PromptContent
	switch input.Kind {
	case models.PromptKindMcq:
		content = models.NewMcqContent(title, detail, input.Question, input.Options, input.CorrectIndex)
	case models.PromptKindShortText:
		content = models.NewShortTextContent(title, detail, input.Prompt, input.CharLimit)
	case models.PromptKindLongText:
		content = models.NewLongTextContent(title, detail, input.Prompt, input.WordLimit)
	case models.PromptKindSlide:
		content = models.NewSlideContent(title, detail, models.SlideContent{})
	default:
		return nil, badRequest("unknown prompt kind")
	}
	if err := content.Validate(); err != nil {
		return nil, badRequest(err.Error())
	}

	slideIndex := 0
	if input.SlideIndex != nil && *input.SlideIndex >= 0 {
		slideIndex = *input.SlideIndex
	} else {
		slideIndex = s.nextSlideIndex(sessionID)
	}

	prompt := models.Prompt{
		SessionID:  sessionID,
		SlideIndex: slideIndex,
		Kind:       input.Kind,
		Content:    content,
		CreatedBy:  callerID,
	}
	if err := s.db.Create(&prompt).Error; err != nil {
		return nil, err
	}

	s.events.Publish(sessionID, models.EventPromptCreated, prompt)

	return &prompt, nil
}

// nextSlideIndex keeps indices 0-based and dense: next is the count of
// existing prompts.
func (s *PromptService) nextSlideIndex(sessionID uint) int {
	var count int64
	s.db.Model(&models.Prompt{}).Where("session_id = ?", sessionID).Count(&count)
	return int(count)
}

type PromptPatch struct {
	IsOpen   *bool
	Released *bool
}

// Patch toggles is_open and/or released, owner only. The change lands
// in the event log so late subscribers still see open/close flips.
func (s *PromptService) Patch(promptID, callerID uint, callerRole string, patch PromptPatch) (*models.Prompt, error) {
	if callerRole != models.RoleTeacher {
		return nil, ErrTeachersOnly
	}
	if patch.IsOpen == nil && patch.Released == nil {
		return nil, badRequest("provide a field to update")
	}

	var prompt models.Prompt
	if err := s.db.First(&prompt, promptID).Error; err != nil {
		return nil, ErrPromptNotFound
	}
	if _, err := s.ownedSession(prompt.SessionID, callerID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.IsOpen != nil {
		updates["is_open"] = *patch.IsOpen
		prompt.IsOpen = *patch.IsOpen
	}
	if patch.Released != nil {
		updates["released"] = *patch.Released
		prompt.Released = *patch.Released
	}
	if err := s.db.Model(&models.Prompt{}).Where("id = ?", promptID).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.events.Publish(prompt.SessionID, models.EventPromptOpenState, map[string]interface{}{
		"prompt_id": prompt.ID,
		"is_open":   prompt.IsOpen,
		"released":  prompt.Released,
	})

	return &prompt, nil
}

// Delete removes one prompt with its answers, clears it as the
// session's current prompt if needed, and re-derives the remaining
// slide indices so they stay 0-based and contiguous.
func (s *PromptService) Delete(promptID, callerID uint, callerRole string) error {
	if callerRole != models.RoleTeacher {
		return ErrTeachersOnly
	}

	var prompt models.Prompt
	if err := s.db.First(&prompt, promptID).Error; err != nil {
		return ErrPromptNotFound
	}
	session, err := s.ownedSession(prompt.SessionID, callerID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", promptID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Prompt{}, promptID).Error; err != nil {
			return err
		}
		if session.CurrentPrompt != nil && *session.CurrentPrompt == promptID {
			if err := tx.Model(&models.Session{}).Where("id = ?", session.ID).
				Update("current_prompt", nil).Error; err != nil {
				return err
			}
		}
		return reindexPrompts(tx, session.ID)
	})
	if err != nil {
		return err
	}

	s.events.Publish(session.ID, models.EventPromptDeleted, map[string]interface{}{
		"prompt_id": promptID,
	})

	return nil
}

// Reorder rewrites every listed prompt's slide_index to its position in
// the given order, inside one transaction. The list must be the
// session's full prompt set; a subset would leave duplicate or gapped
// indices behind.
func (s *PromptService) Reorder(sessionID, callerID uint, callerRole string, promptIDs []uint) error {
	if callerRole != models.RoleTeacher {
		return ErrTeachersOnly
	}
	if _, err := s.ownedSession(sessionID, callerID); err != nil {
		return err
	}
	if len(promptIDs) == 0 {
		return badRequest("provide prompt ids to reorder")
	}

	var total int64
	s.db.Model(&models.Prompt{}).
		Where("session_id = ?", sessionID).
		Count(&total)

	var matched int64
	s.db.Model(&models.Prompt{}).
		Where("session_id = ? AND id IN ?", sessionID, promptIDs).
		Count(&matched)
	if int(matched) != len(promptIDs) || int64(len(promptIDs)) != total {
		return badRequest("the new order must list every prompt of the session exactly once")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for position, promptID := range promptIDs {
			err := tx.Model(&models.Prompt{}).
				Where("id = ? AND session_id = ?", promptID, sessionID).
				Update("slide_index", position).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Publish(sessionID, models.EventPromptsReordered, map[string]interface{}{
		"prompt_ids": promptIDs,
	})

	return nil
}

// reindexPrompts rewrites slide_index 0..n-1 in current display order.
func reindexPrompts(tx *gorm.DB, sessionID uint) error {
	var prompts []models.Prompt
	if err := tx.Where("session_id = ?", sessionID).
		Order("slide_index ASC").
		Find(&prompts).Error; err != nil {
		return err
	}
	for position, prompt := range prompts {
		if prompt.SlideIndex == position {
			continue
		}
		err := tx.Model(&models.Prompt{}).Where("id = ?", prompt.ID).
			Update("slide_index", position).Error
		if err != nil {
			return err
		}
	}
	return nil
}
