package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bravo68web/folio/internal/domain/service"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// FilesystemStorage implements the StorageService interface for local filesystem
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates a new filesystem storage instance
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	// Ensure base path exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &FilesystemStorage{
		basePath: absPath,
	}, nil
}

// GetBasePath returns the base storage path
func (s *FilesystemStorage) GetBasePath() string {
	return s.basePath
}

// LocalPath returns the on-disk location of path, used by the file watcher
func (s *FilesystemStorage) LocalPath(path string) string {
	return s.resolvePath(path)
}

// Exists checks if a path exists in the storage
func (s *FilesystemStorage) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(s.resolvePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check path existence: %w", err)
	}
	return true, nil
}

// ReadFile reads the entire file content
func (s *FilesystemStorage) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.resolvePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// OpenFile opens a file for reading
func (s *FilesystemStorage) OpenFile(_ context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(s.resolvePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// WriteFile writes data through a temporary file and renames it into place,
// so readers and the watcher never observe a half-written log
func (s *FilesystemStorage) WriteFile(_ context.Context, path string, data []byte) error {
	fullPath := s.resolvePath(path)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set file permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}

// DeleteFile removes a file
func (s *FilesystemStorage) DeleteFile(_ context.Context, path string) error {
	if err := os.Remove(s.resolvePath(path)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Stat returns file info for the given path
func (s *FilesystemStorage) Stat(_ context.Context, path string) (service.ObjectInfo, error) {
	info, err := os.Stat(s.resolvePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return service.ObjectInfo{}, notFound(path)
		}
		return service.ObjectInfo{}, fmt.Errorf("failed to stat path: %w", err)
	}
	return service.ObjectInfo{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// ListFiles returns a list of file names in the given directory
func (s *FilesystemStorage) ListFiles(_ context.Context, path string) ([]string, error) {
	entries, err := os.ReadDir(s.resolvePath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// resolvePath resolves a relative path to an absolute path within the base directory
func (s *FilesystemStorage) resolvePath(path string) string {
	if filepath.IsAbs(path) && strings.HasPrefix(path, s.basePath) {
		return path
	}
	return filepath.Join(s.basePath, filepath.Clean("/"+path))
}

func notFound(path string) error {
	return apperrors.NotFound(path, apperrors.ErrNotFound)
}

// Verify interface compliance at compile time
var _ service.StorageService = (*FilesystemStorage)(nil)
