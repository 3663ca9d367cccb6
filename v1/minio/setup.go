package minio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned when the referenced upload does not exist.
var ErrObjectNotFound = errors.New("object not found")

// ErrObjectTooLarge is returned when an upload exceeds Config.MaxObjectSize.
var ErrObjectTooLarge = errors.New("object exceeds maximum size")

// MinioClient reads catalog uploads from one bucket.
type MinioClient struct {
	client *minio.Client
	cfg    Config
}

// NewClient creates the MinIO client. No request is made until the first
// operation, so an unreachable server surfaces in EnsureBucket or Open.
func NewClient(cfg Config) (*MinioClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioClient{client: client, cfg: cfg}, nil
}

// EnsureBucket verifies the configured bucket exists, creating it when
// CreateBucket is set.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.cfg.BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.cfg.BucketName, err)
	}
	if exists {
		return nil
	}
	if !m.cfg.CreateBucket {
		return fmt.Errorf("bucket %s does not exist", m.cfg.BucketName)
	}
	if err := m.client.MakeBucket(ctx, m.cfg.BucketName, minio.MakeBucketOptions{Region: m.cfg.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.cfg.BucketName, err)
	}
	return nil
}

// Open returns a reader over the object stored at objectKey. The caller
// must close it.
func (m *MinioClient) Open(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.cfg.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(objectKey, err)
	}

	// GetObject is lazy; Stat forces the request so a missing key is reported here.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, translateError(objectKey, err)
	}
	if m.cfg.MaxObjectSize > 0 && info.Size > m.cfg.MaxObjectSize {
		_ = obj.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, objectKey, info.Size)
	}
	return obj, nil
}

func translateError(objectKey string, err error) error {
	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrObjectNotFound, objectKey)
	}
	return fmt.Errorf("failed to get object %s: %w", objectKey, err)
}
