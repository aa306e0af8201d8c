package handlers

import (
	"io"
	"net/http"
	"strings"

	"github.com/boatnoah/lumo/internal/services"

	"github.com/gin-gonic/gin"
)

const maxPDFSize = 50 << 20

type UploadHandler struct {
	slideService *services.SlideService
}

func NewUploadHandler(slideService *services.SlideService) *UploadHandler {
	return &UploadHandler{slideService: slideService}
}

// UploadSlides godoc
// @Summary      Ingest a PDF into slide prompts
// @Description  Rasterizes each page to a PNG and appends one slide prompt per page
// @Tags         slides
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        session_id formData int true "Session ID"
// @Param        file formData file true "PDF file"
// @Success      201 {object} services.IngestResult
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Router       /api/v1/slides/upload [post]
func (h *UploadHandler) UploadSlides(c *gin.Context) {
	userID, role := caller(c)

	raw := c.PostForm("session_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session_id is required"})
		return
	}
	sessionID, err := parseUintQuery(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "session_id must be a number"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "no file provided"})
		return
	}
	if fileHeader.Size > maxPDFSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "file too large (max 50MB)"})
		return
	}

	contentType := strings.ToLower(fileHeader.Header.Get("Content-Type"))
	if contentType != "" && contentType != "application/pdf" && contentType != "application/x-pdf" {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{Error: "only pdf uploads are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read file"})
		return
	}

	result, err := h.slideService.IngestPDF(c.Request.Context(), sessionID, userID, role, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
