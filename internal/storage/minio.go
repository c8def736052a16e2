package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stemsi/neetquiz-backend/internal/config"
)

// MinioStore uploads objects to a MinIO (or any S3-compatible) endpoint.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	if cfg.StorageEndpoint == "" {
		return nil, fmt.Errorf("minio storage requires STORAGE_ENDPOINT")
	}
	client, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
		Region: cfg.StorageRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	base := cfg.StoragePublicBase
	if base == "" {
		scheme := "http"
		if cfg.StorageUseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.StorageEndpoint, cfg.StorageBucket)
	}

	return &MinioStore{client: client, bucket: cfg.StorageBucket, publicBase: base}, nil
}

// Put uploads localPath to key.
func (s *MinioStore) Put(ctx context.Context, localPath, key string) (string, error) {
	_, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentTypeFor(key),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	return publicURL(s.publicBase, key), nil
}
