package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boatnoah/lumo/internal/models"
	"github.com/boatnoah/lumo/internal/pdf"
	"github.com/boatnoah/lumo/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SlideService is the single PDF ingestion pipeline: given a PDF it
// produces one stored PNG per page (capped), each backing a new
// slide-kind prompt appended to the session.
type SlideService struct {
	db       *gorm.DB
	store    storage.Store
	events   *EventService
	log      *zap.Logger
	maxPages int
}

func NewSlideService(db *gorm.DB, store storage.Store, events *EventService, log *zap.Logger, maxPages int) *SlideService {
	return &SlideService{db: db, store: store, events: events, log: log, maxPages: maxPages}
}

type IngestResult struct {
	SessionID     uint            `json:"session_id"`
	PageCount     int             `json:"page_count"`
	CreatedSlides int             `json:"created_slides"`
	Prompts       []models.Prompt `json:"prompts"`
}

// IngestPDF validates ownership and the file, rasterizes every page,
// stores the images under the session's prefix, and appends one slide
// prompt per page.
func (s *SlideService) IngestPDF(ctx context.Context, sessionID, callerID uint, callerRole string, fileName string, data []byte) (*IngestResult, error) {
	if callerRole != models.RoleTeacher {
		return nil, ErrTeachersOnly
	}

	var session models.Session
	if err := s.db.First(&session, sessionID).Error; err != nil {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID != callerID {
		return nil, ErrNotOwner
	}

	if !pdf.IsPDF(data) {
		return nil, badRequest("uploaded file does not look like a pdf")
	}

	tempDir, err := os.MkdirTemp("", "pdf-upload-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	pdfPath := filepath.Join(tempDir, "source.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, err
	}

	pageCount, err := pdf.PageCount(ctx, pdfPath)
	if err != nil {
		if errors.Is(err, pdf.ErrToolsUnavailable) {
			return nil, ErrPDFToolsUnavailable
		}
		return nil, err
	}
	if pageCount > s.maxPages {
		return nil, badRequest(fmt.Sprintf("pdf has %d pages; max allowed is %d", pageCount, s.maxPages))
	}

	pages, err := pdf.RenderToPNG(ctx, pdfPath, tempDir)
	if err != nil {
		if errors.Is(err, pdf.ErrToolsUnavailable) {
			return nil, ErrPDFToolsUnavailable
		}
		return nil, err
	}

	baseIndex := s.promptCount(sessionID)

	result := &IngestResult{SessionID: sessionID, PageCount: pageCount}
	for i, page := range pages {
		imageData, err := os.ReadFile(page.Path)
		if err != nil {
			return nil, err
		}

		storagePath := fmt.Sprintf("%d/%s-page-%d.png", sessionID, uuid.NewString(), page.Number)
		publicURL, err := s.store.Save(ctx, storagePath, bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("store page %d: %w", page.Number, err)
		}

		content := models.NewSlideContent(
			fmt.Sprintf("Slide %d", baseIndex+i+1),
			"Uploaded from PDF",
			models.SlideContent{
				AssetURL:   publicURL,
				AssetPath:  storagePath,
				AssetType:  "image",
				AssetName:  fileName,
				Page:       page.Number,
				TotalPages: pageCount,
			},
		)

		prompt := models.Prompt{
			SessionID:  sessionID,
			SlideIndex: baseIndex + i,
			Kind:       models.PromptKindSlide,
			Content:    content,
			CreatedBy:  callerID,
		}
		if err := s.db.Create(&prompt).Error; err != nil {
			return nil, err
		}
		result.Prompts = append(result.Prompts, prompt)
	}
	result.CreatedSlides = len(result.Prompts)

	s.log.Info("pdf ingested",
		zap.Uint("session_id", sessionID),
		zap.Int("pages", result.CreatedSlides),
		zap.String("file", fileName))

	s.events.Publish(sessionID, models.EventPromptCreated, map[string]interface{}{
		"created_slides": result.CreatedSlides,
	})

	return result, nil
}

func (s *SlideService) promptCount(sessionID uint) int {
	var count int64
	s.db.Model(&models.Prompt{}).Where("session_id = ?", sessionID).Count(&count)
	return int(count)
}
