// Package objectstore provides read-only access to the raw document store.
// Backed by S3-compatible object storage. The ingestion path never writes
// here; uploaded files are the immutable source of truth.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// System reads raw document bytes by their source pointer (object key).
type System interface {
	// Get returns a stream for the object at the given key. The caller must
	// close the reader. Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// GetBytes reads the full object into memory.
	GetBytes(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether an object exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

type store struct {
	client *s3.Client
	bucket string
	logger *slog.Logger
}

// New creates a raw store client from the given configuration. Static
// credentials are used when provided; otherwise the default AWS chain
// applies. Path-style addressing supports MinIO and R2 endpoints.
func New(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &store{
		client: client,
		bucket: cfg.Bucket,
		logger: logger.With("system", "rawstore"),
	}, nil
}

func (s *store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return out.Body, nil
}

func (s *store) GetBytes(ctx context.Context, key string) ([]byte, error) {
	body, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

func (s *store) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("head object %s: %w", key, err)
	}

	return true, nil
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	return errors.As(err, &noSuchKey)
}
