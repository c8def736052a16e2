package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/model"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
	"golang.org/x/sync/errgroup"
)

// ExtractionService turns an ordered image batch into one context block.
type ExtractionService struct {
	classifier  ImageClassifier
	store       ObjectStore
	screenshots ScreenshotOCR
	camera      CameraOCR
	progress    ProgressPublisher
	workers     int
	log         zerolog.Logger
	now         func() time.Time
}

// NewExtractionService creates a new ExtractionService. workers bounds the
// number of images processed at once.
func NewExtractionService(
	classifier ImageClassifier,
	store ObjectStore,
	screenshots ScreenshotOCR,
	camera CameraOCR,
	progress ProgressPublisher,
	workers int,
	log zerolog.Logger,
) *ExtractionService {
	if workers < 1 {
		workers = 1
	}
	if progress == nil {
		progress = NopProgress{}
	}
	return &ExtractionService{
		classifier:  classifier,
		store:       store,
		screenshots: screenshots,
		camera:      camera,
		progress:    progress,
		workers:     workers,
		log:         log.With().Str("component", "extraction_service").Logger(),
		now:         time.Now,
	}
}

// imageOutcome is the slot one worker fills for its image.
type imageOutcome struct {
	text string
	diag string
}

// Extract processes every image and concatenates the non-empty texts in input
// order. A failing image adds a diagnostic and never aborts the batch. Every
// image's local file is deleted before Extract returns, on every path.
func (s *ExtractionService) Extract(ctx context.Context, batchID string, images []model.ImageUpload) (result *model.ExtractionResult, err error) {
	scratch := NewScratchFiles(s.log)
	for _, img := range images {
		scratch.Add(img.LocalPath)
	}
	s.log.Debug().Str("batch_id", batchID).Int("scratch_files", scratch.Len()).Msg("Extraction started")
	defer func() {
		cleaned := scratch.Release()
		if result != nil {
			result.FilesCleaned = cleaned
		}
	}()

	if len(images) == 0 {
		return nil, ErrNoImages
	}

	outcomes := make([]imageOutcome, len(images))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range images {
		g.Go(func() error {
			outcomes[i] = s.processImage(ctx, batchID, i, images[i])
			return nil
		})
	}
	_ = g.Wait()

	texts := make([]string, 0, len(images))
	var diagnostics []string
	for _, o := range outcomes {
		if o.diag != "" {
			diagnostics = append(diagnostics, o.diag)
			continue
		}
		texts = append(texts, o.text)
	}

	s.progress.Publish(ctx, ws.ProgressEvent{
		Event:     ws.EventBatchDone,
		BatchID:   batchID,
		Processed: len(texts),
		Total:     len(images),
	})

	if len(texts) == 0 {
		s.log.Warn().Int("images", len(images)).Strs("errors", diagnostics).Msg("No text extracted from batch")
		return nil, ErrExtractionFailed.With(nil, diagnostics...)
	}

	return &model.ExtractionResult{
		ContextText:    strings.Join(texts, "\n"),
		ProcessedCount: len(texts),
		TotalFiles:     len(images),
		Diagnostics:    diagnostics,
	}, nil
}

func (s *ExtractionService) processImage(ctx context.Context, batchID string, idx int, img model.ImageUpload) (out imageOutcome) {
	log := s.log.With().Int("index", idx).Str("filename", img.OriginalName).Logger()

	// A panicking collaborator is recorded like any other per-image failure.
	defer func() {
		if r := recover(); r != nil {
			out = imageOutcome{diag: fmt.Sprintf("error processing %s: panic: %v", img.OriginalName, r)}
			log.Error().Interface("panic", r).Msg("Image processing panicked")
		}
	}()

	s.progress.Publish(ctx, ws.ProgressEvent{
		Event: ws.EventImageStarted, BatchID: batchID, Index: idx, Filename: img.OriginalName,
	})

	kind, text, err := s.extractOne(ctx, img)
	switch {
	case err != nil:
		out.diag = fmt.Sprintf("error processing %s: %v", img.OriginalName, err)
	case strings.TrimSpace(text) == "":
		out.diag = fmt.Sprintf("no text found in %s", img.OriginalName)
	default:
		out.text = strings.TrimSpace(text)
	}

	if out.diag != "" {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("Image extraction failed")
		metrics.ImagesProcessed.WithLabelValues(string(kind), "failed").Inc()
		s.progress.Publish(ctx, ws.ProgressEvent{
			Event: ws.EventImageFailed, BatchID: batchID, Index: idx, Filename: img.OriginalName,
			Kind: string(kind), Message: out.diag,
		})
		return out
	}

	log.Debug().Str("kind", string(kind)).Int("chars", len(out.text)).Msg("Image text extracted")
	metrics.ImagesProcessed.WithLabelValues(string(kind), "ok").Inc()
	s.progress.Publish(ctx, ws.ProgressEvent{
		Event: ws.EventImageDone, BatchID: batchID, Index: idx, Filename: img.OriginalName, Kind: string(kind),
	})
	return out
}

func (s *ExtractionService) extractOne(ctx context.Context, img model.ImageUpload) (model.ImageKind, string, error) {
	kind, err := s.classifier.Classify(ctx, img.LocalPath)
	if err != nil {
		s.log.Debug().Err(err).Str("filename", img.OriginalName).Msg("Classification failed, treating as camera photo")
		kind = model.ImageKindCameraPhoto
	}

	if kind == model.ImageKindScreenshot {
		text, err := s.screenshots.ExtractFile(ctx, img.LocalPath)
		return kind, text, err
	}

	url, err := s.store.Put(ctx, img.LocalPath, ObjectKey(s.now(), img.OriginalName))
	if err != nil {
		return kind, "", fmt.Errorf("upload: %w", err)
	}
	text, err := s.camera.ExtractURL(ctx, url)
	if err != nil {
		return kind, "", fmt.Errorf("ocr: %w", err)
	}
	return kind, text, nil
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds the durable storage key of a camera photo.
func ObjectKey(now time.Time, originalName string) string {
	name := unsafeKeyChars.ReplaceAllString(filepath.Base(originalName), "_")
	if name == "" || name == "." || name == "_" {
		name = "image"
	}
	return fmt.Sprintf("quiz-images/%d-%s-%s", now.UnixMilli(), uuid.NewString()[:8], name)
}

// ExtractionDiagnostics returns the per-image diagnostics carried by an
// ErrExtractionFailed error.
func ExtractionDiagnostics(err error) []string {
	var e *Error
	if errors.As(err, &e) && errors.Is(err, ErrExtractionFailed) {
		return e.Details
	}
	return nil
}
