package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/gateway"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/media"
	"github.com/timmy/learnx/internal/prompts"
)

// Fallback answers used when the gateway succeeds without the expected text.
const (
	FallbackContent     = "Unable to generate content."
	FallbackSlides      = "Unable to generate slides."
	FallbackExplanation = "Unable to analyze the image."
	FallbackTranscript  = "Unable to transcribe audio."

	defaultImageMessage = "Image generated successfully"
)

var (
	// ErrNoImage is returned when image generation succeeds without an image.
	ErrNoImage = errors.New("failed to generate image: no image in response")

	// ErrInvalidPayload marks caller errors in an otherwise well-formed request.
	ErrInvalidPayload = errors.New("invalid payload")
)

// Completer sends one chat completion and decodes the typed result into out.
type Completer interface {
	Complete(ctx context.Context, req *gateway.ChatRequest, out interface{}) error
}

// FunctionConfig holds the fixed model identifiers.
type FunctionConfig struct {
	TextModel  string
	ImageModel string
}

// FunctionService implements the five gateway-backed functions. Each call makes
// exactly one gateway request and never retries.
type FunctionService struct {
	gateway    Completer
	textModel  string
	imageModel string
}

// NewFunctionService creates a new FunctionService.
// Parameters:
//   - completer: AI gateway client.
//   - cfg: model identifiers for text and image requests.
//
// Returns:
//   - *FunctionService: initialized service.
func NewFunctionService(completer Completer, cfg *FunctionConfig) *FunctionService {
	return &FunctionService{
		gateway:    completer,
		textModel:  cfg.TextModel,
		imageModel: cfg.ImageModel,
	}
}

// GenerateImage asks the image model for one image. A response without an
// image is a hard failure (ErrNoImage).
func (s *FunctionService) GenerateImage(ctx context.Context, req *domain.GenerateImageRequest) (*domain.GenerateImageResponse, error) {
	logger.CtxInfo(ctx, "Generating image: prompt_length=%d", len(req.Prompt))

	chat := &gateway.ChatRequest{
		Model:      s.imageModel,
		Messages:   []gateway.Message{gateway.UserMessage(prompts.ImagePrompt(req.Prompt))},
		Modalities: []string{"image", "text"},
	}

	var result gateway.ImageResult
	if err := s.gateway.Complete(ctx, chat, &result); err != nil {
		if errors.Is(err, gateway.ErrMissingField) {
			logger.CtxError(ctx, "No image URL found in response: %v", err)
			return nil, ErrNoImage
		}
		return nil, err
	}

	message := result.Text()
	if message == "" {
		message = defaultImageMessage
	}

	imageURL := result.ImageURL()
	logger.With(logger.Fields{logger.FieldSize: len(imageURL)}).Info(ctx, "Image generated")

	return &domain.GenerateImageResponse{ImageURL: imageURL, Message: message}, nil
}

// GenerateContent writes long-form content about a topic.
func (s *FunctionService) GenerateContent(ctx context.Context, req *domain.GenerateContentRequest) (*domain.GenerateContentResponse, error) {
	logger.CtxInfo(ctx, "Generating content: prompt_length=%d", len(req.Prompt))

	content, err := s.completeText(ctx, &gateway.ChatRequest{
		Model: s.textModel,
		Messages: []gateway.Message{
			gateway.SystemMessage(prompts.ContentSystemPrompt),
			gateway.UserMessage(prompts.ContentUserPrompt(req.Prompt)),
		},
	}, FallbackContent)
	if err != nil {
		return nil, err
	}
	return &domain.GenerateContentResponse{Content: content}, nil
}

// AnalyzeTextForSlides turns free text into a slide outline.
func (s *FunctionService) AnalyzeTextForSlides(ctx context.Context, req *domain.AnalyzeSlidesRequest) (*domain.AnalyzeSlidesResponse, error) {
	logger.CtxInfo(ctx, "Analyzing content for slides: content_length=%d", len(req.Content))

	slides, err := s.completeText(ctx, &gateway.ChatRequest{
		Model: s.textModel,
		Messages: []gateway.Message{
			gateway.SystemMessage(prompts.SlidesSystemPrompt),
			gateway.UserMessage(prompts.SlidesUserPrompt(req.Content)),
		},
	}, FallbackSlides)
	if err != nil {
		return nil, err
	}
	return &domain.AnalyzeSlidesResponse{Slides: slides}, nil
}

// ExplainImage explains an inline base64 image.
func (s *FunctionService) ExplainImage(ctx context.Context, req *domain.ExplainImageRequest) (*domain.ExplainImageResponse, error) {
	logger.CtxInfo(ctx, "Analyzing image: mime_type=%s", req.MimeType)

	explanation, err := s.completeText(ctx, &gateway.ChatRequest{
		Model: s.textModel,
		Messages: []gateway.Message{
			gateway.UserParts(
				gateway.TextPart(prompts.ExplainImagePrompt),
				gateway.ImagePart(media.FormatDataURI(req.MimeType, req.Image)),
			),
		},
	}, FallbackExplanation)
	if err != nil {
		return nil, err
	}
	return &domain.ExplainImageResponse{Explanation: explanation}, nil
}

// SpeechToText transcribes inline base64 audio. The payload is decoded in
// chunks to validate it; the original base64 text is what the gateway receives.
func (s *FunctionService) SpeechToText(ctx context.Context, req *domain.SpeechToTextRequest) (*domain.SpeechToTextResponse, error) {
	audio, err := media.DecodeBase64Chunks(req.Audio, media.DefaultChunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: audio is not valid base64: %v", ErrInvalidPayload, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: no audio data provided", ErrInvalidPayload)
	}

	format := media.AudioFormat(req.MimeType)
	logger.With(logger.Fields{logger.FieldSize: len(audio)}).Info(ctx, "Transcribing audio: mime_type=%s, format=%s", req.MimeType, format)

	text, err := s.completeText(ctx, &gateway.ChatRequest{
		Model: s.textModel,
		Messages: []gateway.Message{
			gateway.UserParts(
				gateway.TextPart(prompts.TranscribePrompt),
				gateway.AudioPart(req.Audio, format),
			),
		},
	}, FallbackTranscript)
	if err != nil {
		return nil, err
	}
	return &domain.SpeechToTextResponse{Text: text}, nil
}

// completeText runs a text completion, substituting fallback when the
// response carries no content.
func (s *FunctionService) completeText(ctx context.Context, req *gateway.ChatRequest, fallback string) (string, error) {
	var result gateway.TextResult
	err := s.gateway.Complete(ctx, req, &result)
	if errors.Is(err, gateway.ErrMissingField) {
		logger.CtxWarn(ctx, "Gateway response had no content, using fallback: %v", err)
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return result.Content(), nil
}
