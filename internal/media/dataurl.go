package media

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotDataURI is returned when a string is not a base64 data URI.
var ErrNotDataURI = errors.New("not a base64 data URI")

// DataURI is a decoded data:{mime};base64,{payload} string.
type DataURI struct {
	MIMEType string
	Data     []byte
}

// IsDataURI reports whether s looks like a base64 data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:") && strings.Contains(s, ";base64,")
}

// ParseDataURI decodes a base64 data URI.
func ParseDataURI(s string) (*DataURI, error) {
	if !IsDataURI(s) {
		return nil, ErrNotDataURI
	}

	header, payload, _ := strings.Cut(strings.TrimPrefix(s, "data:"), ";base64,")
	mimeType, _, _ := strings.Cut(header, ";")

	data, err := DecodeBase64Chunks(payload, DefaultChunkSize)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}

	return &DataURI{MIMEType: mimeType, Data: data}, nil
}

// FormatDataURI builds a data URI from a MIME type and a base64 payload.
func FormatDataURI(mimeType, base64Data string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)
}

// AudioFormat maps an upload MIME type to the format name the gateway accepts.
// Anything that is not recognisably WAV is sent as mp3.
func AudioFormat(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mp3"):
		return "mp3"
	case strings.Contains(mimeType, "wav"):
		return "wav"
	default:
		return "mp3"
	}
}
