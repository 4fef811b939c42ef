package gateway

import "encoding/json"

// OpenAI-compatible chat completion request structures

type ChatRequest struct {
	Model      string    `json:"model"`
	Messages   []Message `json:"messages"`
	Modalities []string  `json:"modalities,omitempty"`
}

type Message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string, or []ContentPart for multimodal user turns
}

type ContentPart struct {
	Type       string      `json:"type"`
	Text       string      `json:"text,omitempty"`
	ImageURL   *ImageURL   `json:"image_url,omitempty"`
	InputAudio *InputAudio `json:"input_audio,omitempty"`
}

type ImageURL struct {
	URL string `json:"url"`
}

type InputAudio struct {
	Data   string `json:"data"`
	Format string `json:"format"`
}

// SystemMessage builds a system turn.
func SystemMessage(text string) Message {
	return Message{Role: "system", Content: text}
}

// UserMessage builds a plain-text user turn.
func UserMessage(text string) Message {
	return Message{Role: "user", Content: text}
}

// UserParts builds a multimodal user turn.
func UserParts(parts ...ContentPart) Message {
	return Message{Role: "user", Content: parts}
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

func ImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url}}
}

func AudioPart(data, format string) ContentPart {
	return ContentPart{Type: "input_audio", InputAudio: &InputAudio{Data: data, Format: format}}
}

// ============================================================================
// Typed results. Validation tags mark the fields a caller depends on; a
// response that lacks them fails with ErrMissingField.
// ============================================================================

// TextResult is a completion whose answer is choices[0].message.content.
// Only the first choice is validated; later choices are ignored.
type TextResult struct {
	Choices []TextChoice `json:"choices" validate:"min=1"`
}

type TextChoice struct {
	Message TextMessage `json:"message"`
}

type TextMessage struct {
	Content MessageContent `json:"content" validate:"required"`
}

// MessageContent is message text. Gateways that answer with content parts, null
// or any other non-string shape decode to "", which fails validation.
type MessageContent string

func (m *MessageContent) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*m = ""
		return nil
	}
	*m = MessageContent(s)
	return nil
}

func (r *TextResult) first() interface{} {
	return &r.Choices[0].Message
}

// Content returns the first choice's text, or "" if there is none.
func (r *TextResult) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return string(r.Choices[0].Message.Content)
}

// ImageResult is a completion carrying generated images in choices[0].message.images.
type ImageResult struct {
	Choices []ImageChoice `json:"choices" validate:"min=1"`
}

type ImageChoice struct {
	Message ImageMessage `json:"message"`
}

type ImageMessage struct {
	Content MessageContent   `json:"content"`
	Images  []GeneratedImage `json:"images" validate:"min=1"`
}

func (m *ImageMessage) first() interface{} {
	return &m.Images[0].ImageURL
}

type GeneratedImage struct {
	Type     string            `json:"type"`
	ImageURL GeneratedImageURL `json:"image_url"`
}

type GeneratedImageURL struct {
	URL string `json:"url" validate:"required"`
}

func (r *ImageResult) first() interface{} {
	return &r.Choices[0].Message
}

// ImageURL returns the first generated image URL (usually a data URI).
func (r *ImageResult) ImageURL() string {
	if len(r.Choices) == 0 || len(r.Choices[0].Message.Images) == 0 {
		return ""
	}
	return r.Choices[0].Message.Images[0].ImageURL.URL
}

// Text returns the text that accompanied the image, if any.
func (r *ImageResult) Text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return string(r.Choices[0].Message.Content)
}

// firster is implemented by results whose callers only read the first element
// of a list. Validation descends into that element and no further.
type firster interface {
	first() interface{}
}
