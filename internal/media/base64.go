// Package media holds helpers for the binary payloads that travel through the
// functions as base64 text: audio uploads and generated images.
package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultChunkSize is the number of base64 characters decoded per slice.
const DefaultChunkSize = 32768

// DecodeBase64Chunks decodes s in slices of chunkSize characters and concatenates
// the decoded slices into one buffer. Peak scratch memory is bounded by the chunk
// size instead of the payload size.
//
// chunkSize is rounded down to a multiple of 4 so no slice splits a base64
// quantum. Padding is optional, matching what browsers accept. ASCII
// whitespace, including the line breaks of wrapped encoders, is ignored.
func DecodeBase64Chunks(s string, chunkSize int) ([]byte, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	chunkSize -= chunkSize % 4
	if chunkSize == 0 {
		chunkSize = 4
	}

	s = strings.TrimRight(stripSpace(s), "=")
	out := make([]byte, 0, base64.RawStdEncoding.DecodedLen(len(s)))
	scratch := make([]byte, base64.RawStdEncoding.DecodedLen(min(chunkSize, len(s))))

	for pos := 0; pos < len(s); pos += chunkSize {
		end := min(pos+chunkSize, len(s))
		n, err := base64.RawStdEncoding.Decode(scratch, []byte(s[pos:end]))
		if err != nil {
			return nil, fmt.Errorf("invalid base64 at offset %d: %w", pos, err)
		}
		out = append(out, scratch[:n]...)
	}

	return out, nil
}

func stripSpace(s string) string {
	if !strings.ContainsAny(s, " \t\r\n") {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, s)
}
