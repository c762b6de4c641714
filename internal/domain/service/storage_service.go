package service

import (
	"context"
	"io"
	"strconv"
	"time"
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
	ETag    string // set by backends that expose one
}

// Fingerprint identifies a version of an object, used to skip reloads of
// unchanged content
func (o ObjectInfo) Fingerprint() string {
	if o.ETag != "" {
		return o.ETag
	}
	return o.ModTime.UTC().Format(time.RFC3339Nano) + "/" + strconv.FormatInt(o.Size, 10)
}

// StorageService defines the interface for content storage
// This abstraction allows for different storage backends (filesystem, S3, HTTP)
// serving the commit log, projects.json and generated artifacts.
type StorageService interface {
	// GetBasePath returns the base storage path, prefix or URL
	GetBasePath() string

	// Exists checks if a path exists in the storage
	Exists(ctx context.Context, path string) (bool, error)

	// ReadFile reads the entire file content
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// OpenFile opens a file for reading
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)

	// WriteFile writes data to a file, creating it if it doesn't exist
	WriteFile(ctx context.Context, path string, data []byte) error

	// DeleteFile removes a file. Deleting a missing file is not an error.
	DeleteFile(ctx context.Context, path string) error

	// Stat returns object info for the given path
	Stat(ctx context.Context, path string) (ObjectInfo, error)

	// ListFiles returns the file names directly under the given directory
	ListFiles(ctx context.Context, path string) ([]string, error)
}
