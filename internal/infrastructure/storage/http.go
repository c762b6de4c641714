package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/bravo68web/folio/internal/domain/service"
)

// ErrNotSupported is returned by backends for operations they cannot perform
var ErrNotSupported = errors.New("operation not supported by storage backend")

// HTTPStorage reads published site content (a loc.csv or projects.json
// served by a static host or CDN) over HTTP. Writes use PUT and only work
// against servers that accept them.
type HTTPStorage struct {
	client  *resty.Client
	baseURL string
}

// HTTPConfig holds configuration for HTTP storage
type HTTPConfig struct {
	BaseURL   string
	Timeout   time.Duration
	Retries   int
	AuthToken string
}

// NewHTTPStorage creates a new HTTP storage instance
func NewHTTPStorage(cfg HTTPConfig) *HTTPStorage {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.AuthToken != "" {
		client.SetAuthToken(cfg.AuthToken)
	}

	return &HTTPStorage{client: client, baseURL: baseURL}
}

// GetBasePath returns the base URL
func (s *HTTPStorage) GetBasePath() string {
	return s.baseURL
}

func (s *HTTPStorage) url(path string) string {
	return "/" + strings.TrimPrefix(path, "/")
}

// Exists checks if a path answers a HEAD request with success
func (s *HTTPStorage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, err
}

// ReadFile fetches the entire resource
func (s *HTTPStorage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url(path))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	if err := checkStatus(path, resp); err != nil {
		return nil, err
	}
	return resp.Body(), nil
}

// OpenFile fetches the resource and returns a reader over its body
func (s *HTTPStorage) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := s.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// WriteFile uploads data with PUT
func (s *HTTPStorage) WriteFile(ctx context.Context, path string, data []byte) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType(path)).
		SetBody(data).
		Put(s.url(path))
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return checkStatus(path, resp)
}

// DeleteFile issues a DELETE. A missing resource is not an error.
func (s *HTTPStorage) DeleteFile(ctx context.Context, path string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		Delete(s.url(path))
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	return checkStatus(path, resp)
}

// Stat reads size, modification time and ETag from a HEAD response
func (s *HTTPStorage) Stat(ctx context.Context, path string) (service.ObjectInfo, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Head(s.url(path))
	if err != nil {
		return service.ObjectInfo{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := checkStatus(path, resp); err != nil {
		return service.ObjectInfo{}, err
	}

	info := service.ObjectInfo{
		Path: path,
		ETag: strings.Trim(resp.Header().Get("ETag"), `"`),
	}
	if n, err := strconv.ParseInt(resp.Header().Get("Content-Length"), 10, 64); err == nil {
		info.Size = n
	}
	if t, err := http.ParseTime(resp.Header().Get("Last-Modified")); err == nil {
		info.ModTime = t
	}
	return info, nil
}

// ListFiles is not available over plain HTTP
func (s *HTTPStorage) ListFiles(_ context.Context, _ string) ([]string, error) {
	return nil, ErrNotSupported
}

func checkStatus(path string, resp *resty.Response) error {
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return notFound(path)
	case resp.IsError():
		return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode(), resp.Status())
	}
	return nil
}

// Verify interface compliance at compile time
var _ service.StorageService = (*HTTPStorage)(nil)
