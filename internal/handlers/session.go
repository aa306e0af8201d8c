package handlers

import (
	"net/http"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *services.SessionService
	eventService   *services.EventService
	memberService  *services.MemberService
}

func NewSessionHandler(sessionService *services.SessionService, eventService *services.EventService, memberService *services.MemberService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		eventService:   eventService,
		memberService:  memberService,
	}
}

// CreateSession godoc
// @Summary      Create a session
// @Description  Create a draft session with a fresh 6-digit join code
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} map[string]interface{}
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, _ := caller(c)

	session, err := h.sessionService.Create(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions godoc
// @Summary      List the caller's sessions
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} map[string]interface{}
// @Router       /api/v1/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, _ := caller(c)

	sessions, err := h.sessionService.List(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// GetState godoc
// @Summary      Get session state
// @Description  Status, current prompt, member count and last event id, for reconnect/reload
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} services.SessionState
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/state [get]
func (h *SessionHandler) GetState(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	state, err := h.sessionService.State(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

type UpdateStatusRequest struct {
	Status        *string `json:"status" example:"live"`
	CurrentPrompt *uint   `json:"current_prompt"`
}

// UpdateStatus godoc
// @Summary      Change session status and/or current prompt
// @Description  Going live requires a current prompt; ended is terminal and closes all prompts
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body UpdateStatusRequest true "Status change"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/status [patch]
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	userID, role := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var raw map[string]interface{}
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	update := services.StatusUpdate{}
	if v, present := raw["status"]; present {
		status, isString := v.(string)
		if !isString {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status must be a string"})
			return
		}
		update.Status = &status
	}
	if v, present := raw["current_prompt"]; present {
		update.HasCurrent = true
		if v != nil {
			num, isNumber := v.(float64)
			if !isNumber || num < 0 {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "current_prompt must be a prompt id or null"})
				return
			}
			promptID := uint(num)
			update.CurrentPrompt = &promptID
		}
	}

	session, err := h.sessionService.UpdateStatus(sessionID, userID, role, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

type UpdateSessionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateSession godoc
// @Summary      Edit session title/description
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        request body UpdateSessionRequest true "Fields to edit"
// @Success      200 {object} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [patch]
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	session, err := h.sessionService.UpdateDetails(sessionID, userID, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteSession godoc
// @Summary      Delete a session
// @Description  Cascades prompts, answers, messages, memberships, events and stored slide assets
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} MessageResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	userID, role := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), sessionID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "session deleted"})
}

// ListEvents godoc
// @Summary      Replay the session event log
// @Description  Participants only: event payloads carry chat bodies and prompt snapshots
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Param        after query int false "Replay events with id greater than this"
// @Success      200 {array} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/events [get]
func (h *SessionHandler) ListEvents(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if _, err := h.sessionService.GetParticipant(sessionID, userID); err != nil {
		respondError(c, err)
		return
	}

	var after uint
	if raw := c.Query("after"); raw != "" {
		parsed, err := parseUintQuery(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid after parameter"})
			return
		}
		after = parsed
	}

	events, err := h.eventService.List(sessionID, after)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListMembers godoc
// @Summary      List open memberships
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {array} map[string]interface{}
// @Failure      403 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/members [get]
func (h *SessionHandler) ListMembers(c *gin.Context) {
	userID, _ := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	members, err := h.memberService.ListOpen(sessionID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, members)
}
