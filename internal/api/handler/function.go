package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/service"
)

// FunctionHandler serves POST /functions/v1/{name}.
type FunctionHandler struct {
	functions *service.FunctionService
}

// NewFunctionHandler creates a new function handler.
// Parameters:
//   - functions: gateway-backed function service.
//
// Returns:
//   - *FunctionHandler: initialized handler.
func NewFunctionHandler(functions *service.FunctionService) *FunctionHandler {
	return &FunctionHandler{functions: functions}
}

// GenerateImage handles POST /functions/v1/generate-image.
func (h *FunctionHandler) GenerateImage(c *gin.Context) {
	var req domain.GenerateImageRequest
	invoke(c, domain.FunctionGenerateImage, &req, func(ctx context.Context) (interface{}, error) {
		return h.functions.GenerateImage(ctx, &req)
	})
}

// GenerateContent handles POST /functions/v1/generate-content.
func (h *FunctionHandler) GenerateContent(c *gin.Context) {
	var req domain.GenerateContentRequest
	invoke(c, domain.FunctionGenerateContent, &req, func(ctx context.Context) (interface{}, error) {
		return h.functions.GenerateContent(ctx, &req)
	})
}

// AnalyzeTextForSlides handles POST /functions/v1/analyze-text-for-slides.
func (h *FunctionHandler) AnalyzeTextForSlides(c *gin.Context) {
	var req domain.AnalyzeSlidesRequest
	invoke(c, domain.FunctionAnalyzeSlides, &req, func(ctx context.Context) (interface{}, error) {
		return h.functions.AnalyzeTextForSlides(ctx, &req)
	})
}

// ExplainImage handles POST /functions/v1/explain-image.
func (h *FunctionHandler) ExplainImage(c *gin.Context) {
	var req domain.ExplainImageRequest
	invoke(c, domain.FunctionExplainImage, &req, func(ctx context.Context) (interface{}, error) {
		return h.functions.ExplainImage(ctx, &req)
	})
}

// SpeechToText handles POST /functions/v1/speech-to-text.
func (h *FunctionHandler) SpeechToText(c *gin.Context) {
	var req domain.SpeechToTextRequest
	invoke(c, domain.FunctionSpeechToText, &req, func(ctx context.Context) (interface{}, error) {
		return h.functions.SpeechToText(ctx, &req)
	})
}

// invoke binds the body into req, runs call and writes the JSON envelope.
func invoke(c *gin.Context, name string, req interface{}, call func(ctx context.Context) (interface{}, error)) {
	ctx := logger.SetFunction(c.Request.Context(), name)

	if err := c.ShouldBindJSON(req); err != nil {
		logger.CtxWarn(ctx, "Invalid request body: %v", err)
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: "Invalid request: " + err.Error()})
		return
	}

	resp, err := call(ctx)
	if err != nil {
		writeError(ctx, c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func writeError(ctx context.Context, c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, service.ErrInvalidPayload) {
		status = http.StatusBadRequest
	}
	logger.FromContext(ctx).WithError(err).Errorf("Request failed: status=%d", status)
	c.JSON(status, domain.ErrorResponse{Error: err.Error()})
}
