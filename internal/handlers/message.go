package handlers

import (
	"net/http"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// ListMessages godoc
// @Summary      List session chat messages
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	messages, err := h.messageService.List(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

type PostMessageRequest struct {
	Body string `json:"body" binding:"required" example:"hello everyone"`
}

// PostMessage godoc
// @Summary      Send a chat message
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body PostMessageRequest true "Message"
// @Success      201 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/messages [post]
func (h *MessageHandler) PostMessage(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	message, err := h.messageService.Post(sessionID, userID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
