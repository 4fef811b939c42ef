package controller

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/domain"
)

// ImageGeneration is the outcome of generate-then-save. The image is always
// present on success; SaveErr reports a failed gallery insert without hiding it.
type ImageGeneration struct {
	ImageURL string
	Message  string
	Record   *domain.GeneratedImage
	SaveErr  error
}

// Saved reports whether the image reached the gallery.
func (g *ImageGeneration) Saved() bool {
	return g.SaveErr == nil && g.Record != nil
}

// TextGenerator drives image generation, image analysis, content writing and
// slide outlines. Each has its own independent Action.
type TextGenerator struct {
	functions Functions
	images    ImageTable

	image   Action[*ImageGeneration]
	explain Action[string]
	content Action[string]
	slides  Action[string]
}

// NewTextGenerator creates a TextGenerator.
func NewTextGenerator(functions Functions, images ImageTable) *TextGenerator {
	return &TextGenerator{functions: functions, images: images}
}

// GenerateImage generates an image for prompt and then saves it to the gallery.
func (g *TextGenerator) GenerateImage(ctx context.Context, prompt string) (*ImageGeneration, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, goerr.Wrap(ErrEmptyInput, "please enter a prompt")
	}

	return g.image.Run(ctx, func(ctx context.Context) (*ImageGeneration, error) {
		resp, err := g.functions.GenerateImage(ctx, prompt)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to generate image")
		}

		result := &ImageGeneration{ImageURL: resp.ImageURL, Message: resp.Message}
		record, err := g.images.InsertImage(ctx, prompt, resp.ImageURL)
		if err != nil {
			result.SaveErr = goerr.Wrap(err, "failed to save to gallery")
			return result, nil
		}
		result.Record = record
		return result, nil
	})
}

// ExplainImage explains raw image bytes of the given MIME type.
func (g *TextGenerator) ExplainImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", goerr.Wrap(ErrEmptyInput, "please select an image")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return "", goerr.New("not an image", goerr.V("mime_type", mimeType))
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	return g.explain.Run(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.functions.ExplainImage(ctx, encoded, mimeType)
		if err != nil {
			return "", goerr.Wrap(err, "failed to analyze image")
		}
		return resp.Explanation, nil
	})
}

// GenerateContent writes content about topic.
func (g *TextGenerator) GenerateContent(ctx context.Context, topic string) (string, error) {
	if strings.TrimSpace(topic) == "" {
		return "", goerr.Wrap(ErrEmptyInput, "please enter a topic")
	}

	return g.content.Run(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.functions.GenerateContent(ctx, topic)
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate content")
		}
		return resp.Content, nil
	})
}

// GenerateSlides outlines content as slides.
func (g *TextGenerator) GenerateSlides(ctx context.Context, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", goerr.Wrap(ErrEmptyInput, "please enter content for slides")
	}

	return g.slides.Run(ctx, func(ctx context.Context) (string, error) {
		resp, err := g.functions.AnalyzeTextForSlides(ctx, content)
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate slides")
		}
		return resp.Slides, nil
	})
}

// Per-action state, for rendering a spinner or disabling input.
func (g *TextGenerator) ImageState() State { return g.image.State() }

func (g *TextGenerator) ExplainState() State { return g.explain.State() }

func (g *TextGenerator) ContentState() State { return g.content.State() }

func (g *TextGenerator) SlidesState() State { return g.slides.State() }
