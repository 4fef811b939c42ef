package cli

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/timmy/learnx/internal/backend/backendtest"
)

func runCLI(t *testing.T, args ...string) (string, *Error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), append([]string{"learnx"}, args...), &stdout, &stderr)
	return stdout.String(), err
}

func TestContentCommand(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Volcanoes are..."}}]}`)

	out, err := runCLI(t, "content", "--prompt", "volcanoes", "--url", url, "--project-key", backendtest.ProjectKey)
	if err != nil {
		t.Fatalf("content failed: %s", err.Message)
	}
	if strings.TrimSpace(out) != "Volcanoes are..." {
		t.Errorf("output = %q", out)
	}
}

func TestSlidesFromFile(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{"choices":[{"message":{"content":"Slide 1: Evaporation"}}]}`)

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("The water cycle"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "slides", "--file", path, "--url", url, "--project-key", backendtest.ProjectKey)
	if err != nil {
		t.Fatalf("slides failed: %s", err.Message)
	}
	if !strings.Contains(out, "Slide 1: Evaporation") {
		t.Errorf("output = %q", out)
	}
}

func TestImageCommandSavesAndWrites(t *testing.T) {
	// 1x1 transparent png
	const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	url := backendtest.NewServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"A pixel","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,`+pixel+`"}}]}}]}`)

	outFile := filepath.Join(t.TempDir(), "pixel.png")
	out, err := runCLI(t, "image", "--prompt", "a pixel", "--out", outFile, "--url", url, "--project-key", backendtest.ProjectKey)
	if err != nil {
		t.Fatalf("image failed: %s", err.Message)
	}
	if !strings.Contains(out, "Saved to gallery") {
		t.Errorf("output = %q", out)
	}

	data, readErr := os.ReadFile(outFile)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("written file is not a png")
	}

	list, err := runCLI(t, "gallery", "list", "--url", url, "--project-key", backendtest.ProjectKey)
	if err != nil {
		t.Fatalf("gallery list failed: %s", err.Message)
	}
	if !strings.Contains(list, "a pixel") || !strings.Contains(list, "inline image") {
		t.Errorf("gallery list = %q", list)
	}
}

func TestGalleryDownload(t *testing.T) {
	const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	url := backendtest.NewServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"A pixel","images":[{"type":"image_url","image_url":{"url":"data:image/png;base64,`+pixel+`"}}]}}]}`)

	out, err := runCLI(t, "image", "--prompt", "a pixel", "--url", url, "--project-key", backendtest.ProjectKey)
	if err != nil {
		t.Fatalf("image failed: %s", err.Message)
	}
	_, id, ok := strings.Cut(out, "Saved to gallery: ")
	if !ok {
		t.Fatalf("output = %q", out)
	}
	id = strings.TrimSpace(id)

	outFile := filepath.Join(t.TempDir(), "saved.png")
	if _, err := runCLI(t, "gallery", "download", "--out", outFile, "--url", url, "--project-key", backendtest.ProjectKey, id); err != nil {
		t.Fatalf("download failed: %s", err.Message)
	}
	data, readErr := os.ReadFile(outFile)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("downloaded file is not a png")
	}

	_, err = runCLI(t, "gallery", "download", "--out", outFile, "--url", url, "--project-key", backendtest.ProjectKey, "missing-id")
	if err == nil || !strings.Contains(err.Message, "not found") {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestMissingRequiredFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no project key", args: []string{"content", "--prompt", "x", "--url", "http://localhost:1"}},
		{name: "no url", args: []string{"content", "--prompt", "x", "--project-key", "k"}},
		{name: "no prompt", args: []string{"content", "--url", "http://localhost:1", "--project-key", "k"}},
	}

	t.Setenv("LEARNX_URL", "")
	t.Setenv("LEARNX_PROJECT_KEY", "")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestGalleryDeleteUnknown(t *testing.T) {
	url := backendtest.NewServer(t, http.StatusOK, `{}`)

	_, err := runCLI(t, "gallery", "delete", "--url", url, "--project-key", backendtest.ProjectKey, "missing-id")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Message, "not found") {
		t.Errorf("message = %q", err.Message)
	}
}
