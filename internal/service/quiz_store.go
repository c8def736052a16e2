package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/repository"
)

// QuizStore persists questions and the quizzes that reference them, and
// serves the cached student payload of a quiz.
type QuizStore struct {
	questions QuestionRepository
	quizzes   QuizRepository
	rdb       *redis.Client
	cacheTTL  time.Duration
	log       zerolog.Logger
}

// NewQuizStore creates a new QuizStore. rdb may be nil to disable caching.
func NewQuizStore(questions QuestionRepository, quizzes QuizRepository, rdb *redis.Client, cacheTTL time.Duration, log zerolog.Logger) *QuizStore {
	return &QuizStore{
		questions: questions,
		quizzes:   quizzes,
		rdb:       rdb,
		cacheTTL:  cacheTTL,
		log:       log.With().Str("component", "quiz_store").Logger(),
	}
}

// PersistQuiz validates every question, writes the questions, then writes a
// quiz referencing them in draft order. Questions written before a failed quiz
// insert are left in place.
func (s *QuizStore) PersistQuiz(ctx context.Context, draft model.QuizDraft, meta model.QuizMeta) (*model.Quiz, error) {
	if len(draft.Questions) == 0 {
		return nil, ErrInvalidInput.Withf("quiz has no questions")
	}

	questions := make([]model.Question, len(draft.Questions))
	ids := make([]uuid.UUID, len(draft.Questions))
	for i, d := range draft.Questions {
		if meta.QuestionSubject != "" {
			d.Subject = meta.QuestionSubject
		}
		q := newQuestion(d)
		if err := q.Validate(); err != nil {
			detail := fmt.Sprintf("question %d: %v", i+1, err)
			if errors.Is(err, model.ErrCorrectOptionCount) {
				return nil, ErrInvalidQuestion.With(err, detail)
			}
			return nil, ErrInvalidInput.Withf("invalid question %d", i+1).With(err, detail)
		}
		questions[i] = q
		ids[i] = q.ID
	}

	quiz := &model.Quiz{
		OwnerID:          meta.OwnerID,
		Title:            pick(meta.Title, draft.Title),
		Description:      meta.Description,
		ContextText:      meta.ContextText,
		ContextEmbedding: meta.ContextEmbedding,
		QuestionIDs:      ids,
		Subject:          model.Subject(pick(string(meta.Subject), string(draft.Subject))),
		Topic:            pick(meta.Topic, draft.Topic),
		Difficulty:       model.Difficulty(pick(string(meta.Difficulty), string(draft.Difficulty))),
		IsDailyQuiz:      meta.IsDailyQuiz,
		DailyTaskID:      meta.DailyTaskID,
		ParentQuizID:     meta.ParentQuizID,
	}
	if quiz.Description == nil && draft.Description != "" {
		desc := draft.Description
		quiz.Description = &desc
	}
	if !quiz.Subject.Valid() || !quiz.Difficulty.Valid() {
		return nil, ErrInvalidInput.Withf("quiz subject or difficulty is invalid")
	}

	if err := s.questions.CreateMany(ctx, questions); err != nil {
		return nil, fmt.Errorf("insert questions: %w", err)
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		if errors.Is(err, repository.ErrDuplicate) && quiz.DailyTaskID != nil {
			return nil, ErrAlreadyAttempted
		}
		s.log.Error().Err(err).Int("orphaned_questions", len(questions)).Msg("Quiz insert failed after questions were written")
		return nil, fmt.Errorf("insert quiz: %w", err)
	}
	quiz.Questions = questions

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(questions)).
		Bool("daily", quiz.IsDailyQuiz).
		Msg("Quiz persisted")
	return quiz, nil
}

func newQuestion(d model.QuestionDraft) model.Question {
	q := model.Question{
		ID:             uuid.New(),
		QuestionText:   d.QuestionText,
		Options:        make([]model.Option, len(d.Options)),
		Explanation:    d.Explanation,
		Subject:        d.Subject,
		Difficulty:     d.Difficulty,
		IsPreviousYear: d.IsPreviousYear,
		Year:           d.Year,
		Embedding:      d.Embedding,
	}
	for i, o := range d.Options {
		q.Options[i] = model.Option{ID: uuid.New(), Text: o.Text, IsCorrect: o.IsCorrect, Explanation: o.Explanation}
	}
	return q
}

func pick(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

// GetQuiz loads a quiz with its questions in quiz order.
func (s *QuizStore) GetQuiz(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	questions, err := s.questions.GetByIDs(ctx, quiz.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("get questions: %w", err)
	}
	if len(questions) != len(quiz.QuestionIDs) {
		return nil, fmt.Errorf("quiz %s references %d questions, found %d", quiz.ID, len(quiz.QuestionIDs), len(questions))
	}
	quiz.Questions = questions
	return quiz, nil
}

// GetPayload returns the student-facing quiz, served from Redis when cached.
func (s *QuizStore) GetPayload(ctx context.Context, id uuid.UUID) (*model.QuizPayload, error) {
	key := config.CacheKey.QuizPayloadKey(id.String())
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var payload model.QuizPayload
			if err := json.Unmarshal(data, &payload); err == nil {
				return &payload, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("quiz_id", id.String()).Msg("Quiz cache read failed")
		}
	}

	quiz, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	payload := quiz.Payload()
	s.cachePayload(ctx, key, &payload)
	return &payload, nil
}

// WarmPayload caches a freshly persisted quiz.
func (s *QuizStore) WarmPayload(ctx context.Context, quiz *model.Quiz) {
	payload := quiz.Payload()
	s.cachePayload(ctx, config.CacheKey.QuizPayloadKey(quiz.ID.String()), &payload)
}

func (s *QuizStore) cachePayload(ctx context.Context, key string, payload *model.QuizPayload) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Quiz cache write failed")
	}
}
