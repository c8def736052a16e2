package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
)

// ─── External collaborators ─────────────────────────────────────────

// ImageClassifier decides which extraction path an image takes.
type ImageClassifier interface {
	Classify(ctx context.Context, localPath string) (model.ImageKind, error)
}

// ObjectStore persists camera photos so the remote OCR engine can fetch them.
type ObjectStore interface {
	Put(ctx context.Context, localPath, key string) (string, error)
}

// ScreenshotOCR reads text from a local image.
type ScreenshotOCR interface {
	ExtractFile(ctx context.Context, localPath string) (string, error)
}

// CameraOCR reads text from an image reachable by URL.
type CameraOCR interface {
	ExtractURL(ctx context.Context, imageURL string) (string, error)
}

// Generator sends one prompt to the generative engine and returns its raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder computes semantic embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProgressPublisher fans batch progress out to live subscribers.
type ProgressPublisher interface {
	Publish(ctx context.Context, ev ws.ProgressEvent)
}

// ─── Storage ────────────────────────────────────────────────────────

type QuestionRepository interface {
	CreateMany(ctx context.Context, questions []model.Question) error
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error)
}

type QuizRepository interface {
	Create(ctx context.Context, q *model.Quiz) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	GetByOwnerAndDailyTask(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Quiz, error)
	CountByDailyTask(ctx context.Context, taskID uuid.UUID) (int, error)
}

type DailyTaskRepository interface {
	Create(ctx context.Context, t *model.DailyTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.DailyTask, error)
	ExistsActive(ctx context.Context, date time.Time, subject model.Subject) (bool, error)
	ListActiveByDate(ctx context.Context, date time.Time) ([]model.DailyTask, error)
	List(ctx context.Context, f model.DailyTaskFilter) ([]model.DailyTask, int, error)
	Update(ctx context.Context, t *model.DailyTask) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AttemptRepository interface {
	Create(ctx context.Context, a *model.QuizAttempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error)
	ListByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]model.QuizAttempt, error)
	AttemptedDailyTasks(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	CountByDailyTask(ctx context.Context, taskID uuid.UUID) (int, error)
	History(ctx context.Context, userID uuid.UUID, kind model.HistoryType, limit, offset int) ([]model.AttemptHistoryEntry, int, error)
}

// NopProgress discards progress events.
type NopProgress struct{}

func (NopProgress) Publish(context.Context, ws.ProgressEvent) {}
