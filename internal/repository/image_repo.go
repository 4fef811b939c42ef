package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/timmy/learnx/internal/domain"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// ChangeNotifier receives an event after each committed write.
type ChangeNotifier interface {
	Publish(event domain.ChangeEvent)
}

// ImageRepository handles generated image records.
type ImageRepository struct {
	db       *gorm.DB
	notifier ChangeNotifier
}

// NewImageRepository creates a new ImageRepository.
// Parameters:
//   - db: GORM database handle used for queries.
//   - notifier: change feed to publish committed writes to; may be nil.
//
// Returns:
//   - *ImageRepository: repository instance bound to db.
func NewImageRepository(db *gorm.DB, notifier ChangeNotifier) *ImageRepository {
	return &ImageRepository{db: db, notifier: notifier}
}

// Create inserts a new record. ID and CreatedAt are assigned when empty.
func (r *ImageRepository) Create(ctx context.Context, image *domain.GeneratedImage) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to insert generated image: %w", err)
	}
	r.publish(domain.ChangeInsert, image.ID)
	return nil
}

// List returns every record, newest first.
func (r *ImageRepository) List(ctx context.Context) ([]domain.GeneratedImage, error) {
	images := []domain.GeneratedImage{}
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list generated images: %w", err)
	}
	return images, nil
}

// GetByID retrieves a record by its ID.
func (r *ImageRepository) GetByID(ctx context.Context, id string) (*domain.GeneratedImage, error) {
	var image domain.GeneratedImage
	err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get generated image: %w", err)
	}
	return &image, nil
}

// Delete removes a record by ID. A missing record yields ErrNotFound.
func (r *ImageRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.GeneratedImage{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete generated image: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.publish(domain.ChangeDelete, id)
	return nil
}

func (r *ImageRepository) publish(changeType domain.ChangeType, id string) {
	if r.notifier == nil {
		return
	}
	r.notifier.Publish(domain.ChangeEvent{
		Table:           domain.GeneratedImagesTable,
		Type:            changeType,
		RecordID:        id,
		CommitTimestamp: time.Now().UTC(),
	})
}
