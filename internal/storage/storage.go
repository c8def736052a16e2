// Package storage puts camera photos into durable object storage so the
// remote OCR engine can read them by URL.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/stemsi/neetquiz-backend/internal/config"
)

// ErrUploadFailed wraps every provider-side upload failure.
var ErrUploadFailed = errors.New("upload failed")

// ObjectStore is a durable store addressed by key.
type ObjectStore interface {
	// Put uploads the file at localPath under key and returns its public URL.
	Put(ctx context.Context, localPath, key string) (string, error)
}

// New builds the provider selected by cfg.StorageProvider.
func New(cfg *config.Config) (ObjectStore, error) {
	switch strings.ToLower(cfg.StorageProvider) {
	case "", "s3":
		return NewS3Store(cfg)
	case "minio":
		return NewMinioStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}

// contentTypeFor guesses the MIME type from the key's extension.
func contentTypeFor(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// publicURL joins a configured base URL and an object key.
func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
