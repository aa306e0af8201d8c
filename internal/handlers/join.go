package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type JoinHandler struct {
	memberService *services.MemberService
}

func NewJoinHandler(memberService *services.MemberService) *JoinHandler {
	return &JoinHandler{memberService: memberService}
}

var joinCodePattern = regexp.MustCompile(`^\d{6}$`)

// Join godoc
// @Summary      Join a live session by code
// @Description  Students enter a 6-digit code; rejoining closes the prior open membership first
// @Tags         join
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "6-digit join code"
// @Success      201 {object} services.JoinResult
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/join/{code} [post]
func (h *JoinHandler) Join(c *gin.Context) {
	userID, role := caller(c)

	code := strings.TrimSpace(c.Param("code"))
	if !joinCodePattern.MatchString(code) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "that code format looks off"})
		return
	}

	result, err := h.memberService.Join(code, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Leave godoc
// @Summary      Leave a session
// @Description  Closes the caller's open membership
// @Tags         join
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Session ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/sessions/{id}/leave [post]
func (h *JoinHandler) Leave(c *gin.Context) {
	userID, role := caller(c)
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	member, err := h.memberService.Leave(sessionID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member_id": member.ID,
		"joined_at": member.JoinedAt,
		"left_at":   member.LeftAt,
	})
}
