package handlers

import (
	"net/http"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type PromptHandler struct {
	promptService *services.PromptService
	answerService *services.AnswerService
}

func NewPromptHandler(promptService *services.PromptService, answerService *services.AnswerService) *PromptHandler {
	return &PromptHandler{promptService: promptService, answerService: answerService}
}

// ListPrompts godoc
// @Summary      List a session's prompts in slide order
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Param        session_id query int true "Session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/prompts [get]
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	userID, _ := caller(c)

	raw := c.Query("session_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session_id"})
		return
	}
	sessionID, err := parseUintQuery(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid session_id"})
		return
	}

	prompts, err := h.promptService.List(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

type CreatePromptRequest struct {
	SessionID    uint     `json:"session_id" binding:"required" example:"1"`
	Kind         string   `json:"kind" binding:"required" example:"mcq"`
	SlideIndex   *int     `json:"slide_index"`
	Title        string   `json:"title"`
	Detail       string   `json:"detail"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_option_index"`
	Prompt       string   `json:"prompt"`
	CharLimit    *int     `json:"char_limit"`
	WordLimit    *int     `json:"word_limit"`
}

// CreatePrompt godoc
// @Summary      Create a prompt
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreatePromptRequest true "Prompt data"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/prompts [post]
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	userID, role := caller(c)

	var req CreatePromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	prompt, err := h.promptService.Create(req.SessionID, userID, role, services.PromptInput{
		Kind:         req.Kind,
		SlideIndex:   req.SlideIndex,
		Title:        req.Title,
		Detail:       req.Detail,
		Question:     req.Question,
		Options:      req.Options,
		CorrectIndex: req.CorrectIndex,
		Prompt:       req.Prompt,
		CharLimit:    req.CharLimit,
		WordLimit:    req.WordLimit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"prompt": prompt})
}

// PatchPrompt godoc
// @Summary      Toggle is_open/released on a prompt
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Prompt ID"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/prompts/{id} [patch]
func (h *PromptHandler) PatchPrompt(c *gin.Context) {
	userID, role := caller(c)
	promptID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	patch := services.PromptPatch{}
	if v, present := raw["is_open"]; present {
		b, isBool := v.(bool)
		if !isBool {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "is_open must be a boolean"})
			return
		}
		patch.IsOpen = &b
	}
	if v, present := raw["released"]; present {
		b, isBool := v.(bool)
		if !isBool {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "released must be a boolean"})
			return
		}
		patch.Released = &b
	}

	prompt, err := h.promptService.Patch(promptID, userID, role, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// DeletePrompt godoc
// @Summary      Delete a prompt
// @Description  Removes its answers and re-derives the session's slide indices
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Prompt ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/prompts/{id} [delete]
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	userID, role := caller(c)
	promptID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.promptService.Delete(promptID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "prompt deleted"})
}

type ReorderRequest struct {
	SessionID uint   `json:"session_id" binding:"required" example:"1"`
	PromptIDs []uint `json:"prompt_ids" binding:"required,min=1"`
}

// ReorderPrompts godoc
// @Summary      Reorder a session's prompts
// @Description  Rewrites slide_index to each prompt's position, 0-based, in one transaction
// @Tags         prompts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ReorderRequest true "New order"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/prompts/reorder [post]
func (h *PromptHandler) ReorderPrompts(c *gin.Context) {
	userID, role := caller(c)

	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.promptService.Reorder(req.SessionID, userID, role, req.PromptIDs); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "prompts reordered"})
}

// ListAnswers godoc
// @Summary      List a prompt's answers
// @Description  Owner only; MCQ prompts include a per-option distribution
// @Tags         prompts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Prompt ID"
// @Success      200 {object} services.AnswerSummary
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/prompts/{id}/answers [get]
func (h *PromptHandler) ListAnswers(c *gin.Context) {
	userID, _ := caller(c)
	promptID, ok := idParam(c, "id")
	if !ok {
		return
	}

	summary, err := h.answerService.ListForPrompt(promptID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
