package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/repository"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
)

// QuizService runs the write paths of the pipeline: images to quiz, daily
// challenge start and retake.
type QuizService struct {
	extraction *ExtractionService
	synth      *Synthesizer
	store      *QuizStore
	quizzes    QuizRepository
	tasks      DailyTaskRepository
	progress   ProgressPublisher
	log        zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(
	extraction *ExtractionService,
	synth *Synthesizer,
	store *QuizStore,
	quizzes QuizRepository,
	tasks DailyTaskRepository,
	progress ProgressPublisher,
	log zerolog.Logger,
) *QuizService {
	if progress == nil {
		progress = NopProgress{}
	}
	return &QuizService{
		extraction: extraction,
		synth:      synth,
		store:      store,
		quizzes:    quizzes,
		tasks:      tasks,
		progress:   progress,
		log:        log.With().Str("component", "quiz_service").Logger(),
	}
}

// QuizFromImages is the result of the images-to-quiz path.
type QuizFromImages struct {
	Quiz       *model.Quiz
	Extraction *model.ExtractionResult
	Outcome    Outcome
}

// CreateFromImages extracts text from the spooled images, synthesizes a quiz
// and persists it. The images' local files are released by extraction.
func (s *QuizService) CreateFromImages(ctx context.Context, userID uuid.UUID, batchID string, images []model.ImageUpload) (*QuizFromImages, error) {
	extracted, err := s.extraction.Extract(ctx, batchID, images)
	if err != nil {
		s.progress.Publish(ctx, ws.ProgressEvent{Event: ws.EventError, BatchID: batchID, Message: err.Error()})
		return nil, err
	}

	synth := s.synth.Synthesize(ctx, extracted.ContextText, nil)
	quiz, err := s.store.PersistQuiz(ctx, synth.Draft, model.QuizMeta{
		OwnerID:          userID,
		ContextText:      extracted.ContextText,
		ContextEmbedding: s.synth.Embed(ctx, extracted.ContextText),
	})
	if err != nil {
		s.progress.Publish(ctx, ws.ProgressEvent{Event: ws.EventError, BatchID: batchID, Message: err.Error()})
		return nil, err
	}
	s.store.WarmPayload(ctx, quiz)

	s.progress.Publish(ctx, ws.ProgressEvent{
		Event:     ws.EventQuizReady,
		BatchID:   batchID,
		QuizID:    quiz.ID.String(),
		Processed: extracted.ProcessedCount,
		Total:     extracted.TotalFiles,
	})
	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Int("images", extracted.TotalFiles).
		Int("processed", extracted.ProcessedCount).
		Str("outcome", string(synth.Outcome)).
		Msg("Quiz created from images")

	return &QuizFromImages{Quiz: quiz, Extraction: extracted, Outcome: synth.Outcome}, nil
}

// StartDailyChallenge creates the user's quiz for an active daily task. A user
// gets exactly one quiz per daily task; a second start is a conflict.
func (s *QuizService) StartDailyChallenge(ctx context.Context, userID, taskID uuid.UUID) (*model.Quiz, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyTaskNotFound
		}
		return nil, fmt.Errorf("get daily task: %w", err)
	}
	if !task.IsActive {
		return nil, ErrDailyTaskNotFound
	}

	// Cheap early exit; the unique index on (owner, daily task) decides races.
	if _, err := s.quizzes.GetByOwnerAndDailyTask(ctx, userID, taskID); err == nil {
		return nil, ErrAlreadyAttempted
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup daily quiz: %w", err)
	}

	synth := s.synth.Synthesize(ctx, task.ContextText, nil)
	quiz, err := s.store.PersistQuiz(ctx, synth.Draft, model.QuizMeta{
		OwnerID:          userID,
		ContextText:      task.ContextText,
		ContextEmbedding: task.ContextEmbedding,
		Title:            task.Title,
		Subject:          task.Subject,
		QuestionSubject:  task.Subject,
		IsDailyQuiz:      true,
		DailyTaskID:      &task.ID,
	})
	if err != nil {
		return nil, err
	}
	s.store.WarmPayload(ctx, quiz)

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("task_id", task.ID.String()).
		Str("outcome", string(synth.Outcome)).
		Msg("Daily challenge started")
	return quiz, nil
}

// Retake builds a new quiz from the original's context, linked to it as
// parent. The engine is asked to avoid the parent's questions, which it may
// not honor; the new quiz always gets fresh question records.
func (s *QuizService) Retake(ctx context.Context, userID, quizID uuid.UUID) (*model.Quiz, error) {
	parent, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	avoid := make([]string, len(parent.Questions))
	for i, q := range parent.Questions {
		avoid[i] = q.QuestionText
	}

	synth := s.synth.Synthesize(ctx, parent.ContextText, avoid)
	quiz, err := s.store.PersistQuiz(ctx, synth.Draft, model.QuizMeta{
		OwnerID:          userID,
		ContextText:      parent.ContextText,
		ContextEmbedding: parent.ContextEmbedding,
		Title:            parent.Title + " (Retake)",
		Description:      parent.Description,
		Topic:            parent.Topic,
		Subject:          parent.Subject,
		Difficulty:       parent.Difficulty,
		ParentQuizID:     &parent.ID,
	})
	if err != nil {
		return nil, err
	}
	s.store.WarmPayload(ctx, quiz)

	s.log.Info().
		Str("quiz_id", quiz.ID.String()).
		Str("parent_quiz_id", parent.ID.String()).
		Str("outcome", string(synth.Outcome)).
		Msg("Retake created")
	return quiz, nil
}

// GetPayload returns the student-facing view of a quiz.
func (s *QuizService) GetPayload(ctx context.Context, quizID uuid.UUID) (*model.QuizPayload, error) {
	return s.store.GetPayload(ctx, quizID)
}
