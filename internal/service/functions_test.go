package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/gateway"
)

type fakeGateway struct {
	server   *httptest.Server
	calls    atomic.Int32
	lastBody atomic.Value // map[string]interface{}
}

func newFakeGateway(t *testing.T, status int, response string) *fakeGateway {
	t.Helper()
	fg := &fakeGateway{}
	fg.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fg.calls.Add(1)
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		fg.lastBody.Store(body)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(fg.server.Close)
	return fg
}

func (fg *fakeGateway) body() map[string]interface{} {
	b, _ := fg.lastBody.Load().(map[string]interface{})
	return b
}

func newFunctionService(fg *fakeGateway) *FunctionService {
	client := gateway.NewClient(&gateway.Config{BaseURL: fg.server.URL, APIKey: "k"})
	return NewFunctionService(client, &FunctionConfig{
		TextModel:  "google/gemini-2.5-flash",
		ImageModel: "google/gemini-2.5-flash-image-preview",
	})
}

const emptyCompletion = `{"choices":[{"message":{"role":"assistant"}}]}`

func TestGenerateContent(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"Volcanoes are..."}}]}`)
	svc := newFunctionService(fg)

	resp, err := svc.GenerateContent(context.Background(), &domain.GenerateContentRequest{Prompt: "volcanoes"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Volcanoes are..." {
		t.Errorf("content = %q", resp.Content)
	}
	if fg.calls.Load() != 1 {
		t.Errorf("gateway calls = %d, want 1", fg.calls.Load())
	}

	body := fg.body()
	if body["model"] != "google/gemini-2.5-flash" {
		t.Errorf("model = %v", body["model"])
	}
	messages := body["messages"].([]interface{})
	if len(messages) != 2 || messages[0].(map[string]interface{})["role"] != "system" {
		t.Errorf("expected system+user messages, got %v", messages)
	}
}

func TestTextFallbacks(t *testing.T) {
	audio := base64.StdEncoding.EncodeToString([]byte("RIFF....WAVEfmt "))

	tests := []struct {
		name string
		call func(svc *FunctionService) (string, error)
		want string
	}{
		{
			name: "generate-content",
			call: func(svc *FunctionService) (string, error) {
				r, err := svc.GenerateContent(context.Background(), &domain.GenerateContentRequest{Prompt: "x"})
				if err != nil {
					return "", err
				}
				return r.Content, nil
			},
			want: FallbackContent,
		},
		{
			name: "analyze-text-for-slides",
			call: func(svc *FunctionService) (string, error) {
				r, err := svc.AnalyzeTextForSlides(context.Background(), &domain.AnalyzeSlidesRequest{Content: "x"})
				if err != nil {
					return "", err
				}
				return r.Slides, nil
			},
			want: FallbackSlides,
		},
		{
			name: "explain-image",
			call: func(svc *FunctionService) (string, error) {
				r, err := svc.ExplainImage(context.Background(), &domain.ExplainImageRequest{Image: "AAAA", MimeType: "image/png"})
				if err != nil {
					return "", err
				}
				return r.Explanation, nil
			},
			want: FallbackExplanation,
		},
		{
			name: "speech-to-text",
			call: func(svc *FunctionService) (string, error) {
				r, err := svc.SpeechToText(context.Background(), &domain.SpeechToTextRequest{Audio: audio, MimeType: "audio/wav"})
				if err != nil {
					return "", err
				}
				return r.Text, nil
			},
			want: FallbackTranscript,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFunctionService(newFakeGateway(t, http.StatusOK, emptyCompletion))
			got, err := tt.call(svc)
			if err != nil {
				t.Fatalf("fallback should not be an error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateImageWithoutImageFails(t *testing.T) {
	svc := newFunctionService(newFakeGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"Sorry"}}]}`))

	_, err := svc.GenerateImage(context.Background(), &domain.GenerateImageRequest{Prompt: "a cell"})
	if !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
}

func TestGenerateImage(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK,
		`{"choices":[{"message":{"images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}}]}}]}`)
	svc := newFunctionService(fg)

	resp, err := svc.GenerateImage(context.Background(), &domain.GenerateImageRequest{Prompt: "a cell"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ImageURL != "data:image/png;base64,AAAA" {
		t.Errorf("image url = %q", resp.ImageURL)
	}
	if resp.Message != "Image generated successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	body := fg.body()
	if body["model"] != "google/gemini-2.5-flash-image-preview" {
		t.Errorf("model = %v", body["model"])
	}
	modalities, _ := body["modalities"].([]interface{})
	if len(modalities) != 2 || modalities[0] != "image" || modalities[1] != "text" {
		t.Errorf("modalities = %v", body["modalities"])
	}
}

func TestUpstreamErrorPropagates(t *testing.T) {
	svc := newFunctionService(newFakeGateway(t, http.StatusBadGateway, `upstream down`))

	_, err := svc.GenerateContent(context.Background(), &domain.GenerateContentRequest{Prompt: "x"})
	var upstream *gateway.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if err.Error() != "API error: 502" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestSpeechToTextForwardsOriginalBase64(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"hello world"}}]}`)
	svc := newFunctionService(fg)

	audio := base64.StdEncoding.EncodeToString([]byte("ID3 fake mp3 frames"))
	resp, err := svc.SpeechToText(context.Background(), &domain.SpeechToTextRequest{Audio: audio, MimeType: "audio/mp3"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Text != "hello world" {
		t.Errorf("text = %q", resp.Text)
	}

	messages := fg.body()["messages"].([]interface{})
	parts := messages[0].(map[string]interface{})["content"].([]interface{})
	input := parts[1].(map[string]interface{})["input_audio"].(map[string]interface{})
	if input["data"] != audio {
		t.Error("gateway should receive the original base64 string")
	}
	if input["format"] != "mp3" {
		t.Errorf("format = %v", input["format"])
	}
}

func TestSpeechToTextAcceptsWrappedBase64(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"hello world"}}]}`)
	svc := newFunctionService(fg)

	raw := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("ID3 fake mp3 frames "), 5000))
	var wrapped strings.Builder
	for len(raw) > 76 {
		wrapped.WriteString(raw[:76] + "\n")
		raw = raw[76:]
	}
	wrapped.WriteString(raw)

	resp, err := svc.SpeechToText(context.Background(), &domain.SpeechToTextRequest{Audio: wrapped.String(), MimeType: "audio/mpeg"})
	if err != nil {
		t.Fatalf("wrapped audio should be accepted: %v", err)
	}
	if resp.Text != "hello world" {
		t.Errorf("text = %q", resp.Text)
	}
	if n := fg.calls.Load(); n != 1 {
		t.Errorf("gateway calls = %d", n)
	}
}

func TestSpeechToTextRejectsInvalidAudio(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK, emptyCompletion)
	svc := newFunctionService(fg)

	_, err := svc.SpeechToText(context.Background(), &domain.SpeechToTextRequest{Audio: "%%%not base64%%%"})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if fg.calls.Load() != 0 {
		t.Error("invalid audio must not reach the gateway")
	}
}

func TestExplainImageSendsDataURI(t *testing.T) {
	fg := newFakeGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"A diagram"}}]}`)
	svc := newFunctionService(fg)

	if _, err := svc.ExplainImage(context.Background(), &domain.ExplainImageRequest{Image: "iVBORw0KGgo=", MimeType: "image/png"}); err != nil {
		t.Fatal(err)
	}

	messages := fg.body()["messages"].([]interface{})
	parts := messages[0].(map[string]interface{})["content"].([]interface{})
	url := parts[1].(map[string]interface{})["image_url"].(map[string]interface{})["url"]
	if url != "data:image/png;base64,iVBORw0KGgo=" {
		t.Errorf("image url = %v", url)
	}
}
