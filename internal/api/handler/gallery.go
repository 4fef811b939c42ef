package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/repository"
	"github.com/timmy/learnx/internal/service"
)

// GalleryHandler serves the generated_images table under /rest/v1.
type GalleryHandler struct {
	gallery *service.GalleryService
}

// NewGalleryHandler creates a new gallery handler.
func NewGalleryHandler(gallery *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallery: gallery}
}

// List handles GET /rest/v1/generated_images.
func (h *GalleryHandler) List(c *gin.Context) {
	images, err := h.gallery.List(c.Request.Context())
	if err != nil {
		writeError(c.Request.Context(), c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// Insert handles POST /rest/v1/generated_images.
func (h *GalleryHandler) Insert(c *gin.Context) {
	var req domain.NewImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	record, err := h.gallery.Save(c.Request.Context(), &req)
	if err != nil {
		writeError(c.Request.Context(), c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Delete handles DELETE /rest/v1/generated_images/:id.
func (h *GalleryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	ctx := logger.WithField(c.Request.Context(), logger.FieldRecordID, id)

	if err := h.gallery.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, domain.ErrorResponse{Error: "Image not found"})
			return
		}
		writeError(ctx, c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
