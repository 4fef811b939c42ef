package storage

import (
	"strings"

	"github.com/timmy/learnx/internal/config"
)

// NewStorage creates an ObjectStorage from configuration.
// It returns (nil, nil) when storage is disabled; generated images then stay
// inline as data URIs in the database.
func NewStorage(cfg *config.StorageConfig) (*S3Storage, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	storeType := StorageType(cfg.Type)
	if storeType == "" || storeType == "auto" {
		storeType = detectStorageType(cfg.Endpoint)
	}

	return NewS3Storage(&S3Config{
		Type:      storeType,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	})
}

// detectStorageType attempts to detect the storage type from the endpoint
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
