package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// respondError maps domain errors to their status; everything else is a
// generic 500.
func respondError(c *gin.Context, err error) {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.Status, ErrorResponse{Error: domainErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "something went wrong"})
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

func caller(c *gin.Context) (uint, string) {
	return c.GetUint("user_id"), c.GetString("role")
}

func parseUintQuery(raw string) (uint, error) {
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
