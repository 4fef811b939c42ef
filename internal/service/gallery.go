package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
	"github.com/timmy/learnx/internal/media"
	"github.com/timmy/learnx/internal/storage"
)

// ImageStore persists generated image records.
type ImageStore interface {
	Create(ctx context.Context, image *domain.GeneratedImage) error
	List(ctx context.Context) ([]domain.GeneratedImage, error)
	GetByID(ctx context.Context, id string) (*domain.GeneratedImage, error)
	Delete(ctx context.Context, id string) error
}

// GalleryService manages the generated_images table and, when configured,
// moves inline images into object storage.
type GalleryService struct {
	store   ImageStore
	objects storage.ObjectStorage
}

// NewGalleryService creates a new GalleryService.
// Parameters:
//   - store: record repository.
//   - objects: object storage for generated images; nil keeps data URIs inline.
//
// Returns:
//   - *GalleryService: initialized service.
func NewGalleryService(store ImageStore, objects storage.ObjectStorage) *GalleryService {
	return &GalleryService{store: store, objects: objects}
}

// List returns every record, newest first.
func (s *GalleryService) List(ctx context.Context) ([]domain.GeneratedImage, error) {
	return s.store.List(ctx)
}

// Save inserts a record for a generated image.
func (s *GalleryService) Save(ctx context.Context, req *domain.NewImageRequest) (*domain.GeneratedImage, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt must not be empty", ErrInvalidPayload)
	}

	record := &domain.GeneratedImage{
		ID:       uuid.New().String(),
		Prompt:   prompt,
		ImageURL: req.ImageURL,
	}

	var uploadedKey string
	if s.objects != nil && media.IsDataURI(req.ImageURL) {
		key, url, err := s.offload(ctx, record.ID, req.ImageURL)
		if err != nil {
			return nil, err
		}
		uploadedKey = key
		record.ImageURL = url
	}

	if err := s.store.Create(ctx, record); err != nil {
		if uploadedKey != "" {
			s.removeObject(ctx, uploadedKey)
		}
		return nil, err
	}

	logger.CtxInfo(logger.WithField(ctx, logger.FieldRecordID, record.ID), "Generated image saved")
	return record, nil
}

// Delete removes a record and, best-effort, the object it points to.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	record, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	if s.objects != nil {
		if key, ok := s.objects.KeyFromURL(record.ImageURL); ok {
			s.removeObject(ctx, key)
		}
	}
	return nil
}

// offload uploads an inline data URI and returns the object key and public URL.
func (s *GalleryService) offload(ctx context.Context, id, dataURI string) (string, string, error) {
	parsed, err := media.ParseDataURI(dataURI)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	info, err := media.SniffImage(parsed.Data)
	if err != nil {
		return "", "", fmt.Errorf("%w: image_url is not a supported image: %v", ErrInvalidPayload, err)
	}

	key := fmt.Sprintf("generated/%s.%s", id, info.Extension())
	if err := s.objects.Upload(ctx, key, bytes.NewReader(parsed.Data), int64(len(parsed.Data)), info.ContentType()); err != nil {
		return "", "", fmt.Errorf("failed to store generated image: %w", err)
	}

	logger.With(logger.Fields{logger.FieldSize: len(parsed.Data)}).Info(ctx,
		"Uploaded generated image: key=%s, format=%s, %dx%d", key, info.Format, info.Width, info.Height)
	return key, s.objects.GetURL(key), nil
}

func (s *GalleryService) removeObject(ctx context.Context, key string) {
	if err := s.objects.Delete(ctx, key); err != nil {
		logger.FromContext(ctx).WithError(err).Warnf("Failed to remove stored image %s", key)
	}
}
