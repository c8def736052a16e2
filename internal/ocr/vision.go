// Package ocr extracts text from question images with Google Cloud Vision.
package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Vision runs DOCUMENT_TEXT_DETECTION either on inline bytes (screenshots,
// processed in place) or on a remote image URL (camera photos in object storage).
type Vision struct {
	client  *vision.ImageAnnotatorClient
	timeout time.Duration
	log     zerolog.Logger
}

// NewVision creates a Vision client. An empty credentialsFile falls back to
// application default credentials.
func NewVision(ctx context.Context, credentialsFile string, timeout time.Duration, log zerolog.Logger) (*Vision, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &Vision{
		client:  client,
		timeout: timeout,
		log:     log.With().Str("component", "ocr").Logger(),
	}, nil
}

func (v *Vision) Close() error {
	return v.client.Close()
}

// ExtractFile reads a local image and returns its text. Empty images yield "".
func (v *Vision) ExtractFile(ctx context.Context, localPath string) (string, error) {
	img, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(img) == 0 {
		return "", nil
	}
	return v.annotate(ctx, &visionpb.Image{Content: img})
}

// ExtractURL asks Vision to fetch and read a remote image.
func (v *Vision) ExtractURL(ctx context.Context, imageURL string) (string, error) {
	return v.annotate(ctx, &visionpb.Image{
		Source: &visionpb.ImageSource{ImageUri: imageURL},
	})
}

func (v *Vision) annotate(ctx context.Context, img *visionpb.Image) (string, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	resp, err := v.client.BatchAnnotateImages(ctx, &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: img,
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	return responseText(resp)
}

// responseText pulls the full text annotation out of a batch response.
func responseText(resp *visionpb.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return "", nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	if r0.FullTextAnnotation == nil {
		return "", nil
	}
	return strings.TrimSpace(r0.FullTextAnnotation.Text), nil
}
