package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient implements ObjectStore using MinIO.
type MinIOClient struct {
	client     *minio.Client
	bucketName string
}

// MinIOConfig holds MinIO connection settings.
type MinIOConfig struct {
	Endpoint  string // e.g., "localhost:9000"
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// StoreError wraps a MinIO failure for external consumers.
type StoreError struct {
	Message string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("minio: %s", e.Message)
}

// NewMinIOClient creates a new MinIO storage client.
// The bucket must already exist: this side only reads what ingestion wrote.
func NewMinIOClient(ctx context.Context, cfg MinIOConfig) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, toStoreError(err, "failed to check bucket existence")
	}
	if !exists {
		return nil, toStoreError(fmt.Errorf("bucket %q does not exist", cfg.Bucket), "nothing to read")
	}

	return &MinIOClient{
		client:     client,
		bucketName: cfg.Bucket,
	}, nil
}

// Get opens an object for reading. The caller must close the returned body.
func (m *MinIOClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, toStoreError(err, fmt.Sprintf("failed to get object %q", key))
	}

	// GetObject is lazy; Stat forces the first request so a missing key
	// fails here instead of on the first Read.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, toStoreError(err, fmt.Sprintf("failed to stat object %q", key))
	}

	return obj, nil
}

func toStoreError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &StoreError{Message: fmt.Sprintf("%s: %v", context, err)}
}
