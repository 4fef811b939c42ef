// Package backend is the client side of the LearnX backend: function
// invocation, generated_images rows and the realtime change feed.
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/timmy/learnx/internal/domain"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("record not found")

// FunctionError is a failed call as reported by the backend's {error} envelope.
type FunctionError struct {
	Function   string
	StatusCode int
	Message    string
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Function, e.StatusCode, e.Message)
}

// Config holds configuration for the backend client.
type Config struct {
	URL        string
	ProjectKey string
	Timeout    time.Duration
}

// Client talks to the backend over HTTP and websockets.
type Client struct {
	rest       *resty.Client
	baseURL    *url.URL
	projectKey string
	dialer     *websocket.Dialer
}

// New creates a backend client.
// Parameters:
//   - cfg: backend URL, project key and optional timeout.
//
// Returns:
//   - *Client: initialized client.
//   - error: non-nil if the URL or project key is missing or malformed.
func New(cfg *Config) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, goerr.New("backend URL is required")
	}
	if strings.TrimSpace(cfg.ProjectKey) == "" {
		return nil, goerr.New("project key is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.URL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, goerr.New("invalid backend URL", goerr.V("url", cfg.URL))
	}

	rest := resty.New().
		SetBaseURL(base.String()).
		SetHeader("apikey", cfg.ProjectKey).
		SetAuthToken(cfg.ProjectKey).
		SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		rest.SetTimeout(cfg.Timeout)
	}

	return &Client{
		rest:       rest,
		baseURL:    base,
		projectKey: cfg.ProjectKey,
		dialer:     websocket.DefaultDialer,
	}, nil
}

// Invoke calls POST /functions/v1/{name} with in and decodes the answer into out.
func (c *Client) Invoke(ctx context.Context, name string, in, out interface{}) error {
	var failure domain.ErrorResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(out).
		SetError(&failure).
		Post("/functions/v1/" + name)
	if err != nil {
		return goerr.Wrap(err, "failed to invoke function", goerr.V("function", name))
	}
	if resp.IsError() {
		return &FunctionError{Function: name, StatusCode: resp.StatusCode(), Message: errorMessage(resp, failure)}
	}
	return nil
}

func (c *Client) GenerateImage(ctx context.Context, prompt string) (*domain.GenerateImageResponse, error) {
	var out domain.GenerateImageResponse
	if err := c.Invoke(ctx, domain.FunctionGenerateImage, &domain.GenerateImageRequest{Prompt: prompt}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GenerateContent(ctx context.Context, prompt string) (*domain.GenerateContentResponse, error) {
	var out domain.GenerateContentResponse
	if err := c.Invoke(ctx, domain.FunctionGenerateContent, &domain.GenerateContentRequest{Prompt: prompt}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AnalyzeTextForSlides(ctx context.Context, content string) (*domain.AnalyzeSlidesResponse, error) {
	var out domain.AnalyzeSlidesResponse
	if err := c.Invoke(ctx, domain.FunctionAnalyzeSlides, &domain.AnalyzeSlidesRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExplainImage sends image, already base64 encoded without a data: prefix.
func (c *Client) ExplainImage(ctx context.Context, image, mimeType string) (*domain.ExplainImageResponse, error) {
	var out domain.ExplainImageResponse
	req := &domain.ExplainImageRequest{Image: image, MimeType: mimeType}
	if err := c.Invoke(ctx, domain.FunctionExplainImage, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SpeechToText sends audio, already base64 encoded without a data: prefix.
func (c *Client) SpeechToText(ctx context.Context, audio, mimeType string) (*domain.SpeechToTextResponse, error) {
	var out domain.SpeechToTextResponse
	req := &domain.SpeechToTextRequest{Audio: audio, MimeType: mimeType}
	if err := c.Invoke(ctx, domain.FunctionSpeechToText, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListImages returns all generated images, newest first.
func (c *Client) ListImages(ctx context.Context) ([]domain.GeneratedImage, error) {
	var images []domain.GeneratedImage
	var failure domain.ErrorResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(&images).
		SetError(&failure).
		Get("/rest/v1/" + domain.GeneratedImagesTable)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list images")
	}
	if resp.IsError() {
		return nil, goerr.New("failed to list images",
			goerr.V("status", resp.StatusCode()), goerr.V("error", errorMessage(resp, failure)))
	}
	return images, nil
}

// InsertImage stores a generated image record.
func (c *Client) InsertImage(ctx context.Context, prompt, imageURL string) (*domain.GeneratedImage, error) {
	var record domain.GeneratedImage
	var failure domain.ErrorResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(&domain.NewImageRequest{Prompt: prompt, ImageURL: imageURL}).
		SetResult(&record).
		SetError(&failure).
		Post("/rest/v1/" + domain.GeneratedImagesTable)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to insert image")
	}
	if resp.IsError() {
		return nil, goerr.New("failed to insert image",
			goerr.V("status", resp.StatusCode()), goerr.V("error", errorMessage(resp, failure)))
	}
	return &record, nil
}

// DeleteImage removes a record by id. Unknown ids return ErrNotFound.
func (c *Client) DeleteImage(ctx context.Context, id string) error {
	var failure domain.ErrorResponse
	resp, err := c.rest.R().
		SetContext(ctx).
		SetError(&failure).
		SetPathParam("id", id).
		Delete("/rest/v1/" + domain.GeneratedImagesTable + "/{id}")
	if err != nil {
		return goerr.Wrap(err, "failed to delete image", goerr.V("id", id))
	}
	if resp.StatusCode() == http.StatusNotFound {
		return goerr.Wrap(ErrNotFound, "failed to delete image", goerr.V("id", id))
	}
	if resp.IsError() {
		return goerr.New("failed to delete image",
			goerr.V("id", id), goerr.V("status", resp.StatusCode()), goerr.V("error", errorMessage(resp, failure)))
	}
	return nil
}

func errorMessage(resp *resty.Response, failure domain.ErrorResponse) string {
	if failure.Error != "" {
		return failure.Error
	}
	if body := strings.TrimSpace(string(resp.Body())); body != "" {
		return body
	}
	return http.StatusText(resp.StatusCode())
}
