// Package generator wraps the Gemini generative and embedding models.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// ErrEmbeddingsDisabled is returned by Embed when no embedding model is configured.
var ErrEmbeddingsDisabled = errors.New("embeddings are not configured")

// ErrEmptyResponse is returned when the model produced no text parts.
var ErrEmptyResponse = errors.New("generative model returned no text")

// Gemini is the generative engine used to author quizzes and daily contexts.
type Gemini struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	embed   *genai.EmbeddingModel
	timeout time.Duration
	log     zerolog.Logger
}

// Options configures NewGemini.
type Options struct {
	APIKey     string
	Model      string
	EmbedModel string
	Timeout    time.Duration
}

func NewGemini(ctx context.Context, opts Options, log zerolog.Logger) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(opts.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"

	g := &Gemini{
		client:  client,
		model:   model,
		timeout: opts.Timeout,
		log:     log.With().Str("component", "generator").Str("model", opts.Model).Logger(),
	}
	if opts.EmbedModel != "" {
		g.embed = client.EmbeddingModel(opts.EmbedModel)
	}
	return g, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Generate sends a single prompt and returns the raw response text.
// The text carries no schema guarantee.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			g.log.Warn().Int("candidate", i).Str("finish_reason", cand.FinishReason.String()).Msg("Generation did not finish cleanly")
		}
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Embed returns a semantic embedding of text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.embed == nil {
		return nil, ErrEmbeddingsDisabled
	}
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	resp, err := g.embed.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, ErrEmptyResponse
	}
	return resp.Embedding.Values, nil
}

func (g *Gemini) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
