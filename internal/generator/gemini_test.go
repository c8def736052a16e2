package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"title":`), genai.Text(`"Optics"}`)}}},
		{Content: nil},
	}}
	if got := extractText(resp); got != `{"title":"Optics"}` {
		t.Errorf("got %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Errorf("nil response: got %q", got)
	}
}

func TestEmbedDisabled(t *testing.T) {
	g := &Gemini{}
	if _, err := g.Embed(context.Background(), "text"); !errors.Is(err, ErrEmbeddingsDisabled) {
		t.Fatalf("got %v, want ErrEmbeddingsDisabled", err)
	}
}
