package handlers

import (
	"net/http"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileService *services.ProfileService
}

func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile godoc
// @Summary      Get the caller's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, _ := caller(c)

	profile, err := h.profileService.Get(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Role        *string `json:"role" example:"teacher"`
	Avatar      *string `json:"avatar" example:"fox"`
}

// UpdateProfile godoc
// @Summary      Onboard or update the caller's profile
// @Description  Set display name and avatar; role moves from pending to teacher/student once
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, _ := caller(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	profile, err := h.profileService.Update(userID, services.ProfileUpdate{
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Avatar:      req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
