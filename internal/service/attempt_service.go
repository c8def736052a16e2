package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/repository"
	"github.com/stemsi/neetquiz-backend/internal/response"
)

// AttemptService scores submissions, records attempts and serves results.
type AttemptService struct {
	store    *QuizStore
	attempts AttemptRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewAttemptService creates a new AttemptService.
func NewAttemptService(store *QuizStore, attempts AttemptRepository, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		store:    store,
		attempts: attempts,
		log:      log.With().Str("component", "attempt_service").Logger(),
		now:      time.Now,
	}
}

// Submit scores the answers and stores the attempt. Attempts on a daily quiz
// carry its daily task; a second one by the same user is rejected. A daily
// quiz only accepts attempts from the user who started it.
func (s *AttemptService) Submit(ctx context.Context, userID, quizID uuid.UUID, req model.SubmitAttemptRequest) (*model.AttemptSummary, error) {
	if req.TimeTaken < 0 {
		return nil, ErrInvalidInput.Withf("time_taken must not be negative")
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.IsDailyQuiz && quiz.OwnerID != userID {
		return nil, ErrQuizNotFound
	}

	res := Score(quiz.Questions, req.Answers)
	attempt := &model.QuizAttempt{
		UserID:             userID,
		QuizID:             quiz.ID,
		Answers:            res.Answers,
		TotalScore:         res.TotalScore,
		TotalPossibleScore: res.TotalPossibleScore,
		CorrectAnswers:     res.Correct,
		WrongAnswers:       res.Wrong,
		SkippedQuestions:   res.Skipped,
		TimeTakenSeconds:   req.TimeTaken,
		CompletedAt:        s.now().UTC(),
	}
	if quiz.IsDailyQuiz {
		attempt.DailyTaskID = quiz.DailyTaskID
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("create attempt: %w", err)
	}

	kind := "regular"
	if attempt.DailyTaskID != nil {
		kind = "daily"
	}
	metrics.AttemptsScored.WithLabelValues(kind).Inc()

	s.log.Info().
		Str("attempt_id", attempt.ID.String()).
		Str("quiz_id", quiz.ID.String()).
		Int("score", attempt.TotalScore).
		Int("max", attempt.TotalPossibleScore).
		Msg("Attempt recorded")

	return &model.AttemptSummary{
		AttemptID:          attempt.ID,
		Score:              attempt.TotalScore,
		TotalPossibleScore: attempt.TotalPossibleScore,
		CorrectAnswers:     attempt.CorrectAnswers,
		WrongAnswers:       attempt.WrongAnswers,
		SkippedQuestions:   attempt.SkippedQuestions,
		Percentage:         attempt.Percentage(),
		TimeTaken:          attempt.TimeTakenSeconds,
	}, nil
}

// AttemptResults returns the result view of one of the user's attempts.
// Attempts of other users are reported as missing.
func (s *AttemptService) AttemptResults(ctx context.Context, userID, attemptID uuid.UUID) (*model.ResultView, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("get attempt: %w", err)
	}
	if attempt.UserID != userID {
		return nil, ErrAttemptNotFound
	}

	quiz, err := s.store.GetQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, err
	}
	view := AssembleResults(attempt, quiz)
	return &view, nil
}

// QuizResults returns result views for all of the user's attempts at a quiz, newest first.
func (s *AttemptService) QuizResults(ctx context.Context, userID, quizID uuid.UUID) ([]model.ResultView, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attempts.ListByUserAndQuiz(ctx, userID, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, ErrAttemptNotFound.Withf("no attempts found for this quiz")
	}

	views := make([]model.ResultView, len(attempts))
	for i := range attempts {
		views[i] = AssembleResults(&attempts[i], quiz)
	}
	return views, nil
}

// History returns a page of the user's attempts filtered by kind.
func (s *AttemptService) History(ctx context.Context, userID uuid.UUID, kind model.HistoryType, page, perPage int) ([]model.AttemptHistoryEntry, *response.Pagination, error) {
	switch kind {
	case "":
		kind = model.HistoryAll
	case model.HistoryAll, model.HistoryDaily, model.HistoryRegular:
	default:
		return nil, nil, ErrInvalidInput.Withf("type must be all, daily or regular")
	}

	page, perPage, limit, offset := normalizePage(page, perPage)
	entries, total, err := s.attempts.History(ctx, userID, kind, limit, offset)
	if err != nil {
		return nil, nil, fmt.Errorf("attempt history: %w", err)
	}
	if entries == nil {
		entries = []model.AttemptHistoryEntry{}
	}
	return entries, newPagination(page, perPage, total), nil
}
