package controller

import (
	"context"

	"github.com/timmy/learnx/internal/backend"
	"github.com/timmy/learnx/internal/domain"
)

// Functions is the function surface of the backend.
type Functions interface {
	GenerateImage(ctx context.Context, prompt string) (*domain.GenerateImageResponse, error)
	GenerateContent(ctx context.Context, prompt string) (*domain.GenerateContentResponse, error)
	AnalyzeTextForSlides(ctx context.Context, content string) (*domain.AnalyzeSlidesResponse, error)
	ExplainImage(ctx context.Context, image, mimeType string) (*domain.ExplainImageResponse, error)
	SpeechToText(ctx context.Context, audio, mimeType string) (*domain.SpeechToTextResponse, error)
}

// ImageTable is the generated_images surface of the backend.
type ImageTable interface {
	ListImages(ctx context.Context) ([]domain.GeneratedImage, error)
	InsertImage(ctx context.Context, prompt, imageURL string) (*domain.GeneratedImage, error)
	DeleteImage(ctx context.Context, id string) error
}

// ChangeFeed opens realtime subscriptions.
type ChangeFeed interface {
	Subscribe(ctx context.Context, table string) (*backend.Subscription, error)
}

var (
	_ Functions  = (*backend.Client)(nil)
	_ ImageTable = (*backend.Client)(nil)
	_ ChangeFeed = (*backend.Client)(nil)
)
