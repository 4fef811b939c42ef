package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/timmy/learnx/internal/logger"
)

// Client calls the AI gateway's chat completions endpoint.
type Client struct {
	client   *resty.Client
	endpoint string
	validate *validator.Validate
}

// Config holds configuration for the gateway client.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

// NewClient creates a gateway client.
// Parameters:
//   - cfg: base URL, bearer credential and optional timeout.
//
// Returns:
//   - *Client: initialized gateway client.
func NewClient(cfg *Config) *Client {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		client:   client,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		validate: validator.New(),
	}
}

// Complete sends one chat completion request and decodes the answer into out,
// which must be a pointer to a typed result such as *TextResult or *ImageResult.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - req: chat completion request.
//   - out: typed result to decode into.
//
// Returns:
//   - error: *UpstreamError for non-2xx responses, ErrMissingField (wrapped)
//     when the decoded result fails validation, or a transport/decoding error.
func (c *Client) Complete(ctx context.Context, req *ChatRequest, out interface{}) error {
	start := time.Now()

	httpResp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(out).
		ForceContentType("application/json").
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}

	if !httpResp.IsSuccess() {
		body := string(httpResp.Body())
		logger.With(logger.Fields{
			logger.FieldStatus: httpResp.StatusCode(),
		}).Since(start).Error(ctx, "Gateway error response (model=%s): %s", req.Model, body)
		return &UpstreamError{StatusCode: httpResp.StatusCode(), Body: body}
	}

	logger.With(logger.Fields{
		logger.FieldStatus: httpResp.StatusCode(),
	}).Since(start).WithSize(len(httpResp.Body())).Info(ctx, "Gateway call completed: model=%s", req.Model)

	return c.check(out)
}

// check validates v and then, for list-shaped results, only the first element.
func (c *Client) check(v interface{}) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMissingField, err)
	}
	if f, ok := v.(firster); ok {
		return c.check(f.first())
	}
	return nil
}
