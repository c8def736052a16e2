package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// MediaService spools uploaded images into the scratch directory.
type MediaService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewMediaService creates a new MediaService.
func NewMediaService(cfg *config.Config, log zerolog.Logger) *MediaService {
	return &MediaService{cfg: cfg, log: log.With().Str("component", "media_service").Logger()}
}

// SpoolBatch validates and writes a multipart image batch to local scratch files.
// On failure every file it created is removed; on success ownership of the
// files passes to the caller (ExtractionService.Extract releases them).
func (s *MediaService) SpoolBatch(headers []*multipart.FileHeader) ([]model.ImageUpload, error) {
	if len(headers) == 0 {
		return nil, ErrNoImages
	}
	if s.cfg.MaxImages > 0 && len(headers) > s.cfg.MaxImages {
		return nil, ErrTooManyImages.Withf("at most %d images per batch", s.cfg.MaxImages)
	}

	for _, h := range headers {
		if err := s.check(h); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	scratch := NewScratchFiles(s.log)
	uploads := make([]model.ImageUpload, 0, len(headers))
	for _, h := range headers {
		up, err := s.spool(h)
		if up.LocalPath != "" {
			scratch.Add(up.LocalPath)
		}
		if err != nil {
			scratch.Release()
			return nil, err
		}
		uploads = append(uploads, up)
	}
	return uploads, nil
}

func (s *MediaService) check(h *multipart.FileHeader) error {
	contentType := h.Header.Get("Content-Type")
	if _, ok := allowedMIMETypes[contentType]; !ok {
		return ErrUnsupportedFileType.Withf("unsupported file type %q for %s (allowed: %s)",
			contentType, h.Filename, strings.Join(allowedTypes(), ", "))
	}
	if s.cfg.MaxUploadBytes > 0 && h.Size > s.cfg.MaxUploadBytes {
		return ErrFileTooLarge.Withf("%s is %d bytes (max: %d)", h.Filename, h.Size, s.cfg.MaxUploadBytes)
	}
	return nil
}

func (s *MediaService) spool(h *multipart.FileHeader) (model.ImageUpload, error) {
	contentType := h.Header.Get("Content-Type")
	up := model.ImageUpload{OriginalName: h.Filename, ContentType: contentType}

	src, err := h.Open()
	if err != nil {
		return up, fmt.Errorf("open upload %s: %w", h.Filename, err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(s.cfg.UploadDir, "quiz-"+uuid.NewString()+"-*"+allowedMIMETypes[contentType])
	if err != nil {
		return up, fmt.Errorf("create file: %w", err)
	}
	up.LocalPath = dst.Name()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return up, fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return up, fmt.Errorf("close file: %w", err)
	}
	return up, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
