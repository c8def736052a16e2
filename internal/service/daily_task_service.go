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

// DailyTaskService manages daily challenge contexts. At most one active task
// may exist per (date, subject); the storage layer enforces it.
type DailyTaskService struct {
	tasks    DailyTaskRepository
	quizzes  QuizRepository
	attempts AttemptRepository
	synth    *Synthesizer
	log      zerolog.Logger
	now      func() time.Time
}

// NewDailyTaskService creates a new DailyTaskService.
func NewDailyTaskService(tasks DailyTaskRepository, quizzes QuizRepository, attempts AttemptRepository, synth *Synthesizer, log zerolog.Logger) *DailyTaskService {
	return &DailyTaskService{
		tasks:    tasks,
		quizzes:  quizzes,
		attempts: attempts,
		synth:    synth,
		log:      log.With().Str("component", "daily_task_service").Logger(),
		now:      time.Now,
	}
}

// ParseDay parses a YYYY-MM-DD (or RFC 3339) date and truncates it to the day.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidInput.Withf("date must be YYYY-MM-DD")
	}
	return model.TruncateToDay(t), nil
}

func parseSubject(s string) (model.Subject, error) {
	subject := model.Subject(s)
	if !subject.Valid() {
		return "", ErrInvalidInput.Withf("subject must be physics, chemistry or biology")
	}
	return subject, nil
}

// Create stores a manually authored daily task.
func (s *DailyTaskService) Create(ctx context.Context, creatorID uuid.UUID, req model.CreateDailyTaskRequest) (*model.DailyTask, error) {
	date, err := ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	subject, err := parseSubject(req.Subject)
	if err != nil {
		return nil, err
	}

	task := &model.DailyTask{
		Title:         req.Title,
		Date:          date,
		Subject:       subject,
		ContextText:   req.ContextText,
		IsActive:      true,
		IsAIGenerated: req.IsAIGenerated,
		CreatedBy:     creatorID,
	}
	return task, s.insert(ctx, task)
}

// Generate authors a daily task's title and context with the generative engine.
func (s *DailyTaskService) Generate(ctx context.Context, creatorID uuid.UUID, req model.GenerateDailyTaskRequest) (*model.DailyTask, error) {
	date, err := ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	subject, err := parseSubject(req.Subject)
	if err != nil {
		return nil, err
	}
	return s.generate(ctx, creatorID, date, subject)
}

func (s *DailyTaskService) generate(ctx context.Context, creatorID uuid.UUID, date time.Time, subject model.Subject) (*model.DailyTask, error) {
	// Skip the generation call when the slot is visibly taken; insert still
	// decides races.
	exists, err := s.tasks.ExistsActive(ctx, date, subject)
	if err != nil {
		return nil, fmt.Errorf("check daily task: %w", err)
	}
	if exists {
		return nil, ErrDuplicateDailyTask
	}

	dc := s.synth.GenerateDailyContext(ctx, subject)
	task := &model.DailyTask{
		Title:         dc.Title,
		Date:          date,
		Subject:       subject,
		ContextText:   dc.Context,
		IsActive:      true,
		IsAIGenerated: true,
		CreatedBy:     creatorID,
	}
	return task, s.insert(ctx, task)
}

func (s *DailyTaskService) insert(ctx context.Context, task *model.DailyTask) error {
	task.Date = model.TruncateToDay(task.Date)
	task.ContextEmbedding = s.synth.Embed(ctx, task.ContextText)

	if err := s.tasks.Create(ctx, task); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateDailyTask
		}
		return fmt.Errorf("create daily task: %w", err)
	}

	s.log.Info().
		Str("task_id", task.ID.String()).
		Str("date", task.Date.Format(model.DateLayout)).
		Str("subject", string(task.Subject)).
		Bool("ai", task.IsAIGenerated).
		Msg("Daily task created")
	return nil
}

// Get returns a task regardless of its active flag.
func (s *DailyTaskService) Get(ctx context.Context, id uuid.UUID) (*model.DailyTask, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDailyTaskNotFound
		}
		return nil, fmt.Errorf("get daily task: %w", err)
	}
	return task, nil
}

// List returns a page of task summaries.
func (s *DailyTaskService) List(ctx context.Context, date, subject string, page, perPage int) ([]model.DailyTaskSummary, *response.Pagination, error) {
	var filter model.DailyTaskFilter
	if date != "" {
		d, err := ParseDay(date)
		if err != nil {
			return nil, nil, err
		}
		filter.Date = &d
	}
	if subject != "" {
		sub, err := parseSubject(subject)
		if err != nil {
			return nil, nil, err
		}
		filter.Subject = &sub
	}

	page, perPage, filter.Limit, filter.Offset = normalizePage(page, perPage)
	tasks, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list daily tasks: %w", err)
	}

	summaries := make([]model.DailyTaskSummary, len(tasks))
	for i := range tasks {
		summaries[i] = tasks[i].Summary()
	}
	return summaries, newPagination(page, perPage, total), nil
}

// Update applies administrative edits. Reactivating a task on an occupied
// (date, subject) is a conflict.
func (s *DailyTaskService) Update(ctx context.Context, id uuid.UUID, req model.UpdateDailyTaskRequest) (*model.DailyTask, error) {
	task, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.ContextText != nil && *req.ContextText != task.ContextText {
		task.ContextText = *req.ContextText
		task.ContextEmbedding = s.synth.Embed(ctx, task.ContextText)
	}
	if req.IsActive != nil {
		task.IsActive = *req.IsActive
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrDuplicateDailyTask
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrDailyTaskNotFound
		}
		return nil, fmt.Errorf("update daily task: %w", err)
	}
	return task, nil
}

// Delete removes a task nobody has used yet. Referenced tasks must be
// deactivated instead.
func (s *DailyTaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	attempts, err := s.attempts.CountByDailyTask(ctx, id)
	if err != nil {
		return fmt.Errorf("count attempts: %w", err)
	}
	quizzes, err := s.quizzes.CountByDailyTask(ctx, id)
	if err != nil {
		return fmt.Errorf("count quizzes: %w", err)
	}
	if attempts > 0 || quizzes > 0 {
		return ErrDailyTaskInUse.Withf("daily task has %d attempts and %d quizzes; deactivate it instead", attempts, quizzes)
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrReferenced):
			return ErrDailyTaskInUse
		case errors.Is(err, repository.ErrNotFound):
			return ErrDailyTaskNotFound
		}
		return fmt.Errorf("delete daily task: %w", err)
	}
	s.log.Info().Str("task_id", id.String()).Msg("Daily task deleted")
	return nil
}

// Available lists today's active tasks the user has not attempted yet.
func (s *DailyTaskService) Available(ctx context.Context, userID uuid.UUID) ([]model.DailyTaskSummary, error) {
	today := model.TruncateToDay(s.now())
	tasks, err := s.tasks.ListActiveByDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("list today's tasks: %w", err)
	}

	ids := make([]uuid.UUID, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	done, err := s.attempts.AttemptedDailyTasks(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("attempted tasks: %w", err)
	}

	out := make([]model.DailyTaskSummary, 0, len(tasks))
	for i := range tasks {
		if !done[tasks[i].ID] {
			out = append(out, tasks[i].Summary())
		}
	}
	return out, nil
}

// EnsureDay creates an AI-generated task for every subject not yet covered on
// date. Occupied slots are skipped; a failure for one subject does not stop
// the others.
func (s *DailyTaskService) EnsureDay(ctx context.Context, date time.Time) ([]model.DailyTask, error) {
	date = model.TruncateToDay(date)
	var created []model.DailyTask
	var errs []error
	for _, subject := range model.Subjects {
		task, err := s.generate(ctx, model.SystemUserID, date, subject)
		switch {
		case err == nil:
			created = append(created, *task)
			metrics.DailyTasksGenerated.WithLabelValues(string(subject), "created").Inc()
		case errors.Is(err, ErrDuplicateDailyTask):
			metrics.DailyTasksGenerated.WithLabelValues(string(subject), "skipped").Inc()
		default:
			metrics.DailyTasksGenerated.WithLabelValues(string(subject), "failed").Inc()
			s.log.Error().Err(err).Str("subject", string(subject)).Msg("Daily task generation failed")
			errs = append(errs, fmt.Errorf("%s: %w", subject, err))
		}
	}
	return created, errors.Join(errs...)
}
