package domain

// Function names, as invoked under /functions/v1/{name}.
const (
	FunctionGenerateImage   = "generate-image"
	FunctionGenerateContent = "generate-content"
	FunctionAnalyzeSlides   = "analyze-text-for-slides"
	FunctionExplainImage    = "explain-image"
	FunctionSpeechToText    = "speech-to-text"
)

type GenerateImageRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateImageResponse struct {
	ImageURL string `json:"imageUrl"`
	Message  string `json:"message"`
}

type GenerateContentRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type GenerateContentResponse struct {
	Content string `json:"content"`
}

type AnalyzeSlidesRequest struct {
	Content string `json:"content" binding:"required"`
}

type AnalyzeSlidesResponse struct {
	Slides string `json:"slides"`
}

// ExplainImageRequest carries a base64 image without the data: prefix.
type ExplainImageRequest struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType" binding:"required"`
}

type ExplainImageResponse struct {
	Explanation string `json:"explanation"`
}

// SpeechToTextRequest carries base64 audio without the data: prefix.
type SpeechToTextRequest struct {
	Audio    string `json:"audio" binding:"required"`
	MimeType string `json:"mimeType"`
}

type SpeechToTextResponse struct {
	Text string `json:"text"`
}

// ErrorResponse is the envelope returned for every failed call.
type ErrorResponse struct {
	Error string `json:"error"`
}
