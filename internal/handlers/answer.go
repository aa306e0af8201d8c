package handlers

import (
	"net/http"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct {
	answerService *services.AnswerService
}

func NewAnswerHandler(answerService *services.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

type SubmitAnswerRequest struct {
	PromptID    uint    `json:"prompt_id" binding:"required" example:"1"`
	ChoiceIndex *int    `json:"choice_index"`
	TextAnswer  *string `json:"text_answer"`
}

// SubmitAnswer godoc
// @Summary      Submit an answer
// @Description  Student role, live session, current and open prompt required; one answer per prompt
// @Tags         answers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubmitAnswerRequest true "Answer"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /api/v1/answers [post]
func (h *AnswerHandler) SubmitAnswer(c *gin.Context) {
	userID, role := caller(c)

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	answer, err := h.answerService.Submit(req.PromptID, userID, role, req.ChoiceIndex, req.TextAnswer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"answer_id":  answer.ID,
		"created_at": answer.CreatedAt,
	})
}
