package backend

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/timmy/learnx/internal/backend/backendtest"
	"github.com/timmy/learnx/internal/domain"
)

func newClient(t *testing.T, url, key string) *Client {
	t.Helper()
	c, err := New(&Config{URL: url, ProjectKey: key, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewValidates(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no url", cfg: Config{ProjectKey: "k"}},
		{name: "no key", cfg: Config{URL: "http://localhost:8080"}},
		{name: "relative url", cfg: Config{URL: "localhost", ProjectKey: "k"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestInvokeFunction(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Volcanoes are..."}}]}`)
	client := newClient(t, url, backendtest.ProjectKey)

	resp, err := client.GenerateContent(context.Background(), "volcanoes")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "Volcanoes are..." {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestInvokeFunctionError(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{"choices":[{"message":{"content":"no picture"}}]}`)
	client := newClient(t, url, backendtest.ProjectKey)

	_, err := client.GenerateImage(context.Background(), "a cell")

	var fnErr *FunctionError
	if !errors.As(err, &fnErr) {
		t.Fatalf("expected FunctionError, got %v", err)
	}
	if fnErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", fnErr.StatusCode)
	}
	if fnErr.Message != "failed to generate image: no image in response" {
		t.Errorf("message = %q", fnErr.Message)
	}
}

func TestWrongProjectKey(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{}`)
	client := newClient(t, url, "wrong")

	_, err := client.GenerateContent(context.Background(), "x")
	var fnErr *FunctionError
	if !errors.As(err, &fnErr) || fnErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 FunctionError, got %v", err)
	}

	if _, err := client.Subscribe(context.Background(), domain.GeneratedImagesTable); err == nil {
		t.Error("change feed should reject a wrong key")
	}
}

func TestImagesAndChangeFeed(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{}`)
	client := newClient(t, url, backendtest.ProjectKey)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub, err := client.Subscribe(ctx, domain.GeneratedImagesTable)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	record, err := client.InsertImage(ctx, "a leaf", "https://images.example.com/leaf.png")
	if err != nil {
		t.Fatal(err)
	}

	select {
	case evt := <-sub.Events():
		if evt.Type != domain.ChangeInsert || evt.RecordID != record.ID {
			t.Errorf("unexpected event %+v", evt)
		}
	case <-ctx.Done():
		t.Fatal("no insert event received")
	}

	images, err := client.ListImages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(images) != 1 || images[0].Prompt != "a leaf" {
		t.Errorf("images = %+v", images)
	}

	if err := client.DeleteImage(ctx, record.ID); err != nil {
		t.Fatal(err)
	}
	select {
	case evt := <-sub.Events():
		if evt.Type != domain.ChangeDelete {
			t.Errorf("expected DELETE, got %s", evt.Type)
		}
	case <-ctx.Done():
		t.Fatal("no delete event received")
	}

	if err := client.DeleteImage(ctx, record.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRealtimeURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{base: "http://localhost:8080", want: "ws://localhost:8080/realtime/v1/generated_images?apikey=k"},
		{base: "https://api.example.com/base/", want: "wss://api.example.com/base/realtime/v1/generated_images?apikey=k"},
	}
	for _, tt := range tests {
		c := newClient(t, tt.base, "k")
		if got := c.realtimeURL(domain.GeneratedImagesTable); got != tt.want {
			t.Errorf("realtimeURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
