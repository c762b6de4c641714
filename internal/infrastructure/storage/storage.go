package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/service"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypeFilesystem represents local filesystem storage
	StorageTypeFilesystem StorageType = "filesystem"

	// StorageTypeS3 represents AWS S3 storage
	StorageTypeS3 StorageType = "s3"

	// StorageTypeHTTP represents read-mostly storage behind a static HTTP host
	StorageTypeHTTP StorageType = "http"
)

// Factory creates storage backends based on configuration
type Factory struct {
	config *config.StorageConfig
}

// NewFactory creates a new storage factory
func NewFactory(cfg *config.StorageConfig) *Factory {
	return &Factory{
		config: cfg,
	}
}

// Create creates a new storage backend based on the configuration
func (f *Factory) Create(ctx context.Context) (service.StorageService, error) {
	switch GetStorageType(f.config) {
	case StorageTypeFilesystem:
		return NewFilesystemStorage(f.config.BasePath)

	case StorageTypeS3:
		return NewS3Storage(ctx, S3Config{
			Bucket:       f.config.S3Bucket,
			Region:       f.config.S3Region,
			AccessKey:    f.config.S3AccessKey,
			SecretKey:    f.config.S3SecretKey,
			Endpoint:     f.config.S3Endpoint,
			UsePathStyle: f.config.S3PathStyle,
		})

	case StorageTypeHTTP:
		return NewHTTPStorage(HTTPConfig{
			BaseURL:   f.config.HTTPBaseURL,
			Timeout:   f.config.HTTPTimeout,
			Retries:   f.config.HTTPRetries,
			AuthToken: f.config.HTTPAuthToken,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.config.Type)
	}
}

// GetStorageType returns the storage type from configuration
func GetStorageType(cfg *config.StorageConfig) StorageType {
	if cfg.Type == "" {
		return StorageTypeFilesystem
	}
	return StorageType(cfg.Type)
}

// LocalPather is implemented by backends whose objects live on local disk
type LocalPather interface {
	LocalPath(path string) string
}

func isNotFound(err error) bool {
	return apperrors.IsNotFound(err)
}

func contentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}
