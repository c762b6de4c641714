package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bravo68web/folio/internal/domain/service"
)

// S3Storage implements the StorageService interface using AWS S3
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string // Base prefix for all objects (e.g., "site/")
}

// S3Config holds configuration for S3 storage
type S3Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	Endpoint     string // Optional: for S3-compatible services like MinIO
	UsePathStyle bool   // Optional: use path-style addressing
	Prefix       string // Base prefix for all objects
}

// NewS3Storage creates a new S3 storage instance
func NewS3Storage(ctx context.Context, cfg S3Config) (*S3Storage, error) {
	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Add credentials if provided
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Create S3 client with optional custom endpoint
	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.UsePathStyle
		})
	}

	prefix := cfg.Prefix
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	storage := &S3Storage{
		client: s3.NewFromConfig(awsCfg, s3Opts...),
		bucket: cfg.Bucket,
		prefix: prefix,
	}

	if err := storage.verifyBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to verify S3 bucket: %w", err)
	}

	return storage, nil
}

// verifyBucket checks if the bucket exists and is accessible
func (s *S3Storage) verifyBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	return err
}

// GetBasePath returns the base prefix
func (s *S3Storage) GetBasePath() string {
	return s.prefix
}

// fullKey returns the full S3 key for a path
func (s *S3Storage) fullKey(path string) string {
	path = strings.TrimPrefix(path, "/")
	if strings.HasPrefix(path, s.prefix) {
		return path
	}
	return s.prefix + path
}

// Exists checks if an object exists in S3
func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.Stat(ctx, path)
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// ReadFile reads the entire content of an object
func (s *S3Storage) ReadFile(ctx context.Context, path string) ([]byte, error) {
	body, err := s.OpenFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// OpenFile opens an object for reading
func (s *S3Storage) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return result.Body, nil
}

// WriteFile writes data to an object
func (s *S3Storage) WriteFile(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.fullKey(path)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(path)),
	})
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// DeleteFile removes an object
func (s *S3Storage) DeleteFile(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Stat returns object info from a HEAD request
func (s *S3Storage) Stat(ctx context.Context, path string) (service.ObjectInfo, error) {
	result, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fullKey(path)),
	})
	if err != nil {
		var nf *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &nf) || errors.As(err, &noSuchKey) {
			return service.ObjectInfo{}, notFound(path)
		}
		return service.ObjectInfo{}, fmt.Errorf("failed to stat object: %w", err)
	}

	return service.ObjectInfo{
		Path:    path,
		Size:    aws.ToInt64(result.ContentLength),
		ModTime: aws.ToTime(result.LastModified),
		ETag:    strings.Trim(aws.ToString(result.ETag), `"`),
	}, nil
}

// ListFiles returns the object names directly under a "directory"
func (s *S3Storage) ListFiles(ctx context.Context, path string) ([]string, error) {
	key := s.fullKey(path)
	if key != "" && !strings.HasSuffix(key, "/") {
		key += "/"
	}

	var files []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(key),
		Delimiter: aws.String("/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list files: %w", err)
		}

		for _, obj := range page.Contents {
			relPath := strings.TrimPrefix(aws.ToString(obj.Key), key)
			if relPath != "" {
				files = append(files, relPath)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// Verify interface compliance at compile time
var _ service.StorageService = (*S3Storage)(nil)
