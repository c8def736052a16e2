package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stemsi/neetquiz-backend/internal/config"
)

// S3Store uploads objects to an S3 bucket with the s3manager uploader.
type S3Store struct {
	uploader   *s3manager.Uploader
	bucket     string
	publicBase string
}

// NewS3Store creates an S3-backed store. Static credentials are used when
// configured, otherwise the default AWS credential chain applies.
func NewS3Store(cfg *config.Config) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.StorageRegion)}
	if cfg.StorageAccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.StorageAccessKey, cfg.StorageSecretKey, "")
	}
	if cfg.StorageEndpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.StorageEndpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &S3Store{
		uploader:   s3manager.NewUploader(sess),
		bucket:     cfg.StorageBucket,
		publicBase: cfg.StoragePublicBase,
	}, nil
}

// Put uploads localPath to key.
func (s *S3Store) Put(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrUploadFailed, localPath, err)
	}
	defer f.Close()

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentTypeFor(key)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	if s.publicBase != "" {
		return publicURL(s.publicBase, key), nil
	}
	return out.Location, nil
}
