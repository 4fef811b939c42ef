package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageInfo describes a sniffed image.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// Extension returns the file extension for the image format.
func (i *ImageInfo) Extension() string {
	if i.Format == "jpeg" {
		return "jpg"
	}
	return i.Format
}

// ContentType returns the MIME type for the image format.
func (i *ImageInfo) ContentType() string {
	return "image/" + i.Format
}

// SniffImage reads the image header and reports its format and dimensions.
// Supported formats: png, jpeg, gif, webp, bmp.
func SniffImage(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	return &ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
