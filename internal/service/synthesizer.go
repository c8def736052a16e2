package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// Outcome describes how a synthesized draft was obtained.
type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRepaired Outcome = "repaired"
	OutcomeFallback Outcome = "fallback"
)

// SynthesisResult is a structurally valid draft plus how it was obtained.
type SynthesisResult struct {
	Draft   model.QuizDraft
	Outcome Outcome
}

// DailyContext is a generated daily challenge topic.
type DailyContext struct {
	Title    string
	Context  string
	Fallback bool
}

// Synthesizer turns a context block into a quiz draft through the generative
// engine. It never returns an error: unusable output degrades to defaults or
// to FallbackQuizDraft.
type Synthesizer struct {
	gen      Generator
	embedder Embedder
	log      zerolog.Logger
}

// NewSynthesizer creates a Synthesizer. embedder may be nil.
func NewSynthesizer(gen Generator, embedder Embedder, log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		gen:      gen,
		embedder: embedder,
		log:      log.With().Str("component", "synthesizer").Logger(),
	}
}

// Synthesize generates a quiz from contextText. avoid is a best-effort hint
// listing question texts the engine should not repeat.
func (s *Synthesizer) Synthesize(ctx context.Context, contextText string, avoid []string) SynthesisResult {
	res := s.synthesize(ctx, contextText, avoid)
	metrics.SynthesisOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (s *Synthesizer) synthesize(ctx context.Context, contextText string, avoid []string) SynthesisResult {
	raw, err := s.gen.Generate(ctx, buildQuizPrompt(contextText, avoid))
	if err != nil {
		s.log.Warn().Err(err).Msg("Generation failed, using fallback quiz")
		return SynthesisResult{Draft: FallbackQuizDraft(), Outcome: OutcomeFallback}
	}

	draft, repaired, err := decodeQuizDraft(raw)
	if err != nil {
		s.log.Warn().Err(err).Int("response_len", len(raw)).Msg("Undecodable generation, using fallback quiz")
		return SynthesisResult{Draft: FallbackQuizDraft(), Outcome: OutcomeFallback}
	}

	kept := draft.Questions[:0]
	for i, q := range draft.Questions {
		if err := checkDraftQuestion(q); err != nil {
			s.log.Warn().Err(err).Int("question", i+1).Msg("Dropping malformed generated question")
			repaired = true
			continue
		}
		kept = append(kept, q)
	}
	draft.Questions = kept

	if len(draft.Questions) == 0 {
		s.log.Warn().Msg("No usable generated questions, using fallback quiz")
		return SynthesisResult{Draft: FallbackQuizDraft(), Outcome: OutcomeFallback}
	}

	outcome := OutcomeOK
	if repaired {
		outcome = OutcomeRepaired
	}
	return SynthesisResult{Draft: draft, Outcome: outcome}
}

// checkDraftQuestion applies the store's structural rules to a draft question.
func checkDraftQuestion(d model.QuestionDraft) error {
	q := model.Question{
		QuestionText:   d.QuestionText,
		Subject:        d.Subject,
		Difficulty:     d.Difficulty,
		IsPreviousYear: d.IsPreviousYear,
		Year:           d.Year,
		Options:        make([]model.Option, len(d.Options)),
	}
	for i, o := range d.Options {
		q.Options[i] = model.Option{Text: o.Text, IsCorrect: o.IsCorrect}
	}
	return q.Validate()
}

// GenerateDailyContext asks the engine for a daily challenge topic. A bad
// response is retried once with a corrective prompt before falling back to a
// fixed topic for the subject.
func (s *Synthesizer) GenerateDailyContext(ctx context.Context, subject model.Subject) DailyContext {
	raw, err := s.gen.Generate(ctx, buildDailyContextPrompt(subject))
	if err != nil {
		s.log.Warn().Err(err).Str("subject", string(subject)).Msg("Daily context generation failed, using fallback")
		return fallbackDailyContext(subject)
	}

	title, text, err := decodeDailyContext(raw)
	if err == nil {
		return DailyContext{Title: title, Context: text}
	}

	s.log.Warn().Err(err).Str("subject", string(subject)).Msg("Invalid daily context, retrying with fix-up prompt")
	raw, err = s.gen.Generate(ctx, dailyContextFixPrompt)
	if err == nil {
		title, text, err = decodeDailyContext(raw)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("subject", string(subject)).Msg("Daily context retry failed, using fallback")
		return fallbackDailyContext(subject)
	}
	return DailyContext{Title: title, Context: text}
}

// Embed returns an embedding of text, or nil when none could be computed.
// A nil embedding means absent; it is never replaced by a zero vector.
func (s *Synthesizer) Embed(ctx context.Context, text string) []float32 {
	if s.embedder == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Debug().Err(err).Msg("Embedding unavailable")
		}
		return nil
	}
	return vec
}
