package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

type captured struct {
	auth string
	path string
	body map[string]interface{}
}

func newGateway(t *testing.T, status int, response string, got *captured) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			got.auth = r.Header.Get("Authorization")
			got.path = r.URL.Path
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &got.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return NewClient(&Config{BaseURL: srv.URL + "/v1/", APIKey: "test-key"})
}

func TestCompleteText(t *testing.T) {
	var got captured
	client := newGateway(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"Volcanoes are..."}}]}`, &got)

	req := &ChatRequest{
		Model: "google/gemini-2.5-flash",
		Messages: []Message{
			SystemMessage("system"),
			UserMessage("volcanoes"),
		},
	}

	var result TextResult
	if err := client.Complete(context.Background(), req, &result); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if result.Content() != "Volcanoes are..." {
		t.Errorf("content = %q", result.Content())
	}
	if got.auth != "Bearer test-key" {
		t.Errorf("authorization = %q", got.auth)
	}
	if got.path != "/v1/chat/completions" {
		t.Errorf("path = %q", got.path)
	}
	if got.body["model"] != "google/gemini-2.5-flash" {
		t.Errorf("model = %v", got.body["model"])
	}
	if _, ok := got.body["modalities"]; ok {
		t.Error("modalities should be omitted for text requests")
	}
	messages, _ := got.body["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
}

func TestCompleteMultimodalRequestShape(t *testing.T) {
	var got captured
	client := newGateway(t, http.StatusOK, `{"choices":[{"message":{"content":"ok"}}]}`, &got)

	req := &ChatRequest{
		Model: "m",
		Messages: []Message{
			UserParts(TextPart("describe"), ImagePart("data:image/png;base64,AAAA"), AudioPart("BBBB", "wav")),
		},
	}

	var result TextResult
	if err := client.Complete(context.Background(), req, &result); err != nil {
		t.Fatal(err)
	}

	messages := got.body["messages"].([]interface{})
	parts := messages[0].(map[string]interface{})["content"].([]interface{})
	if len(parts) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(parts))
	}

	image := parts[1].(map[string]interface{})
	if image["type"] != "image_url" {
		t.Errorf("part type = %v", image["type"])
	}
	if image["image_url"].(map[string]interface{})["url"] != "data:image/png;base64,AAAA" {
		t.Errorf("image url = %v", image["image_url"])
	}

	audio := parts[2].(map[string]interface{})["input_audio"].(map[string]interface{})
	if audio["data"] != "BBBB" || audio["format"] != "wav" {
		t.Errorf("input_audio = %v", audio)
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	client := newGateway(t, http.StatusTooManyRequests, `{"error":"rate limited"}`, nil)

	var result TextResult
	err := client.Complete(context.Background(), &ChatRequest{Model: "m"}, &result)

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", upstream.StatusCode)
	}
	if upstream.Body != `{"error":"rate limited"}` {
		t.Errorf("body = %q", upstream.Body)
	}
	if upstream.Error() != "API error: 429" {
		t.Errorf("message = %q", upstream.Error())
	}
}

func TestCompleteMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		response string
		out      interface{}
	}{
		{name: "no choices", response: `{}`, out: &TextResult{}},
		{name: "empty choices", response: `{"choices":[]}`, out: &TextResult{}},
		{name: "null content", response: `{"choices":[{"message":{"content":null}}]}`, out: &TextResult{}},
		{name: "no images", response: `{"choices":[{"message":{"content":"here"}}]}`, out: &ImageResult{}},
		{name: "image without url", response: `{"choices":[{"message":{"images":[{"type":"image_url","image_url":{}}]}}]}`, out: &ImageResult{}},
		{name: "content parts", response: `{"choices":[{"message":{"content":[{"type":"text","text":"hi"}]}}]}`, out: &TextResult{}},
		{name: "empty first choice", response: `{"choices":[{"message":{"content":""}},{"message":{"content":"second"}}]}`, out: &TextResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newGateway(t, http.StatusOK, tt.response, nil)
			err := client.Complete(context.Background(), &ChatRequest{Model: "m"}, tt.out)
			if !errors.Is(err, ErrMissingField) {
				t.Errorf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestCompleteImage(t *testing.T) {
	client := newGateway(t, http.StatusOK,
		`{"choices":[{"message":{"content":"A volcano","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}}]}}]}`, nil)

	var result ImageResult
	if err := client.Complete(context.Background(), &ChatRequest{Model: "m", Modalities: []string{"image", "text"}}, &result); err != nil {
		t.Fatal(err)
	}
	if result.ImageURL() != "data:image/png;base64,AAAA" {
		t.Errorf("image url = %q", result.ImageURL())
	}
	if result.Text() != "A volcano" {
		t.Errorf("text = %q", result.Text())
	}
}

func TestCompleteValidatesOnlyFirstChoice(t *testing.T) {
	client := newGateway(t, http.StatusOK,
		`{"choices":[{"message":{"content":"Volcanoes are..."}},{"message":{"content":""}},{"message":{}}]}`, nil)

	var result TextResult
	if err := client.Complete(context.Background(), &ChatRequest{Model: "m"}, &result); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.Content() != "Volcanoes are..." {
		t.Errorf("content = %q", result.Content())
	}
}

func TestCompleteValidatesOnlyFirstImage(t *testing.T) {
	client := newGateway(t, http.StatusOK,
		`{"choices":[{"message":{"content":[{"type":"text","text":"x"}],"images":[`+
			`{"type":"image_url","image_url":{"url":"data:image/png;base64,AAAA"}},`+
			`{"type":"image_url","image_url":{}}]}},{"message":{}}]}`, nil)

	var result ImageResult
	if err := client.Complete(context.Background(), &ChatRequest{Model: "m"}, &result); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if result.ImageURL() != "data:image/png;base64,AAAA" {
		t.Errorf("image url = %q", result.ImageURL())
	}
	if result.Text() != "" {
		t.Errorf("text = %q, want empty for non-string content", result.Text())
	}
}

func TestCompleteDecodesWithoutJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	t.Cleanup(srv.Close)
	client := NewClient(&Config{BaseURL: srv.URL, APIKey: "k"})

	var result TextResult
	if err := client.Complete(context.Background(), &ChatRequest{Model: "m"}, &result); err != nil {
		t.Fatal(err)
	}
	if result.Content() != "ok" {
		t.Errorf("content = %q", result.Content())
	}
}
