// Package storage persists image blobs in an S3-compatible bucket and hands
// back the public URLs the spot rows reference.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config holds the connection settings for the blob store. PublicURL, when
// set, overrides the URL derived from the endpoint and bucket; use it when a
// CDN or reverse proxy fronts the bucket.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// BlobStore is a client for S3-compatible storage.
type BlobStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewBlobStore initializes and returns a new blob storage service.
func NewBlobStore(cfg Config) (*BlobStore, error) {
	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage: endpoint, access key, and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: creating client: %w", err)
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &BlobStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (b *BlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("storage: checking bucket existence: %w", err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("storage: creating bucket %s: %w", b.bucket, err)
		}
	}
	return nil
}

// Upload stores the blob under key and returns its public URL.
func (b *BlobStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := b.client.PutObject(
		ctx, b.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("storage: putting object %s: %w", key, err)
	}
	return b.ObjectURL(key), nil
}

// ObjectURL returns the externally-resolvable URL for a stored key.
func (b *BlobStore) ObjectURL(key string) string {
	return b.baseURL + "/" + key
}

// NewImageKey returns a fresh unique object key for a spot image.
func NewImageKey() string {
	return "spots-images/" + uuid.NewString() + ".png"
}
