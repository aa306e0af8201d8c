package services

import (
	"errors"
	"strings"

	"github.com/boatnoah/lumo/internal/models"

	"gorm.io/gorm"
)

type AnswerService struct {
	db     *gorm.DB
	events *EventService
}

func NewAnswerService(db *gorm.DB, events *EventService) *AnswerService {
	return &AnswerService{db: db, events: events}
}

// Submit runs the four gates in order (student role, prompt exists,
// session live with this prompt current, prompt open), validates by
// kind, then inserts. No pre-check read for duplicates: the unique
// index rejects a second submission atomically and that conflict is
// surfaced as its own error.
func (s *AnswerService) Submit(promptID, userID uint, userRole string, choiceIndex *int, textAnswer *string) (*models.Answer, error) {
	if userRole != models.RoleStudent {
		return nil, forbidden("only students can submit answers")
	}

	var prompt models.Prompt
	if err := s.db.First(&prompt, promptID).Error; err != nil {
		return nil, ErrPromptNotFound
	}

	var session models.Session
	if err := s.db.First(&session, prompt.SessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.Status != models.SessionStatusLive {
		return nil, ErrSessionNotLive
	}
	if session.CurrentPrompt == nil || *session.CurrentPrompt != prompt.ID {
		return nil, ErrNotCurrentPrompt
	}

	if !prompt.IsOpen {
		return nil, ErrPromptClosed
	}

	answer := models.Answer{
		PromptID: prompt.ID,
		UserID:   userID,
	}
	if prompt.Kind == models.PromptKindMcq {
		if choiceIndex == nil {
			return nil, badRequest("select an option before submitting")
		}
		if prompt.Content.Mcq == nil || *choiceIndex < 0 || *choiceIndex >= len(prompt.Content.Mcq.Options) {
			return nil, badRequest("that option does not exist")
		}
		answer.ChoiceIndex = choiceIndex
	} else {
		if textAnswer == nil || strings.TrimSpace(*textAnswer) == "" {
			return nil, badRequest("enter a response before submitting")
		}
		answer.TextAnswer = textAnswer
	}

	if err := s.db.Create(&answer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAnswer
		}
		return nil, err
	}

	var count int64
	s.db.Model(&models.Answer{}).Where("prompt_id = ?", prompt.ID).Count(&count)
	s.events.Publish(session.ID, models.EventAnswerSubmitted, map[string]interface{}{
		"prompt_id":    prompt.ID,
		"answer_count": count,
	})

	return &answer, nil
}

type AnswerSummary struct {
	Answers      []models.Answer `json:"answers"`
	Total        int             `json:"total"`
	ChoiceCounts map[int]int     `json:"choice_counts,omitempty"`
}

// ListForPrompt returns the prompt's answers for the owning teacher,
// with a per-option distribution when the prompt is an MCQ.
func (s *AnswerService) ListForPrompt(promptID, callerID uint) (*AnswerSummary, error) {
	var prompt models.Prompt
	if err := s.db.First(&prompt, promptID).Error; err != nil {
		return nil, ErrPromptNotFound
	}

	var session models.Session
	if err := s.db.First(&session, prompt.SessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	var answers []models.Answer
	err := s.db.Where("prompt_id = ?", promptID).
		Order("created_at ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	summary := &AnswerSummary{
		Answers: answers,
		Total:   len(answers),
	}
	if prompt.Kind == models.PromptKindMcq {
		summary.ChoiceCounts = make(map[int]int)
		for _, answer := range answers {
			if answer.ChoiceIndex != nil {
				summary.ChoiceCounts[*answer.ChoiceIndex]++
			}
		}
	}
	return summary, nil
}
