package handler

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/response"
	"github.com/stemsi/neetquiz-backend/internal/service"
)

// ImageSpooler writes an uploaded image batch to scratch storage.
type ImageSpooler interface {
	SpoolBatch(headers []*multipart.FileHeader) ([]model.ImageUpload, error)
}

// QuizPipeline is the quiz write and read surface used by the handlers.
type QuizPipeline interface {
	CreateFromImages(ctx context.Context, userID uuid.UUID, batchID string, images []model.ImageUpload) (*service.QuizFromImages, error)
	StartDailyChallenge(ctx context.Context, userID, taskID uuid.UUID) (*model.Quiz, error)
	Retake(ctx context.Context, userID, quizID uuid.UUID) (*model.Quiz, error)
	GetPayload(ctx context.Context, quizID uuid.UUID) (*model.QuizPayload, error)
}

// Attempts scores submissions and reconstructs results.
type Attempts interface {
	Submit(ctx context.Context, userID, quizID uuid.UUID, req model.SubmitAttemptRequest) (*model.AttemptSummary, error)
	AttemptResults(ctx context.Context, userID, attemptID uuid.UUID) (*model.ResultView, error)
	QuizResults(ctx context.Context, userID, quizID uuid.UUID) ([]model.ResultView, error)
	History(ctx context.Context, userID uuid.UUID, kind model.HistoryType, page, perPage int) ([]model.AttemptHistoryEntry, *response.Pagination, error)
}

// DailyTasks manages daily challenge contexts.
type DailyTasks interface {
	Create(ctx context.Context, creatorID uuid.UUID, req model.CreateDailyTaskRequest) (*model.DailyTask, error)
	Generate(ctx context.Context, creatorID uuid.UUID, req model.GenerateDailyTaskRequest) (*model.DailyTask, error)
	Get(ctx context.Context, id uuid.UUID) (*model.DailyTask, error)
	List(ctx context.Context, date, subject string, page, perPage int) ([]model.DailyTaskSummary, *response.Pagination, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateDailyTaskRequest) (*model.DailyTask, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Available(ctx context.Context, userID uuid.UUID) ([]model.DailyTaskSummary, error)
}

// ProgressSubscriber streams a batch's progress messages.
type ProgressSubscriber interface {
	Subscribe(ctx context.Context, batchID string) (<-chan []byte, func(), error)
}

var (
	_ QuizPipeline       = (*service.QuizService)(nil)
	_ Attempts           = (*service.AttemptService)(nil)
	_ DailyTasks         = (*service.DailyTaskService)(nil)
	_ ImageSpooler       = (*service.MediaService)(nil)
	_ ProgressSubscriber = (*service.RedisProgress)(nil)
)
