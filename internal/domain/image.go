package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedImagesTable is the only table the backend exposes.
const GeneratedImagesTable = "generated_images"

// GeneratedImage is a gallery record created after a successful image generation.
// Records are inserted and deleted, never updated.
type GeneratedImage struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Prompt    string    `gorm:"type:text;not null" json:"prompt"`
	ImageURL  string    `gorm:"type:text;not null" json:"image_url"`
	CreatedAt time.Time `gorm:"index:idx_generated_images_created_at" json:"created_at"`
}

// TableName returns the database table name for GeneratedImage.
func (GeneratedImage) TableName() string {
	return GeneratedImagesTable
}

// BeforeCreate assigns the record ID on insert.
func (g *GeneratedImage) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// NewImageRequest is the body of an insert into generated_images.
type NewImageRequest struct {
	Prompt   string `json:"prompt" binding:"required"`
	ImageURL string `json:"image_url" binding:"required"`
}
