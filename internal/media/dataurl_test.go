package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestParseDataURI(t *testing.T) {
	data := pngBytes(t, 3, 2)
	uri := FormatDataURI("image/png", base64.StdEncoding.EncodeToString(data))

	if !IsDataURI(uri) {
		t.Fatal("expected data URI")
	}

	parsed, err := ParseDataURI(uri)
	if err != nil {
		t.Fatal(err)
	}
	if parsed.MIMEType != "image/png" {
		t.Errorf("mime = %q", parsed.MIMEType)
	}
	if !bytes.Equal(parsed.Data, data) {
		t.Error("payload mismatch")
	}

	info, err := SniffImage(parsed.Data)
	if err != nil {
		t.Fatal(err)
	}
	if info.Format != "png" || info.Width != 3 || info.Height != 2 {
		t.Errorf("unexpected info %+v", info)
	}
	if info.Extension() != "png" || info.ContentType() != "image/png" {
		t.Errorf("extension/content type = %s/%s", info.Extension(), info.ContentType())
	}
}

func TestParseDataURIRejectsURLs(t *testing.T) {
	_, err := ParseDataURI("https://cdn.example.com/a.png")
	if !errors.Is(err, ErrNotDataURI) {
		t.Errorf("expected ErrNotDataURI, got %v", err)
	}
}

func TestSniffImageRejectsText(t *testing.T) {
	if _, err := SniffImage([]byte("hello")); err == nil {
		t.Error("expected error for non-image bytes")
	}
}

func TestAudioFormat(t *testing.T) {
	tests := map[string]string{
		"audio/mp3":   "mp3",
		"audio/mpeg":  "mp3",
		"audio/wav":   "wav",
		"audio/x-wav": "wav",
		"audio/mp4":   "mp3",
		"":            "mp3",
	}
	for mime, want := range tests {
		if got := AudioFormat(mime); got != want {
			t.Errorf("AudioFormat(%q) = %q, want %q", mime, got, want)
		}
	}
}
