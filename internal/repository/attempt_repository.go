package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// AttemptRepository handles quiz attempt data access.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, user_id, quiz_id, daily_task_id, answers, total_score, total_possible_score,
	correct_answers, wrong_answers, skipped_questions, time_taken_seconds, completed_at, created_at`

func scanAttempt(row interface{ Scan(...any) error }, a *model.QuizAttempt) error {
	return row.Scan(&a.ID, &a.UserID, &a.QuizID, &a.DailyTaskID, &a.Answers, &a.TotalScore, &a.TotalPossibleScore,
		&a.CorrectAnswers, &a.WrongAnswers, &a.SkippedQuestions, &a.TimeTakenSeconds, &a.CompletedAt, &a.CreatedAt)
}

// Create inserts an attempt. A second attempt for the same (user, daily task)
// returns ErrDuplicate.
func (r *AttemptRepository) Create(ctx context.Context, a *model.QuizAttempt) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts (user_id, quiz_id, daily_task_id, answers, total_score, total_possible_score,
			correct_answers, wrong_answers, skipped_questions, time_taken_seconds, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`,
		a.UserID, a.QuizID, a.DailyTaskID, a.Answers, a.TotalScore, a.TotalPossibleScore,
		a.CorrectAnswers, a.WrongAnswers, a.SkippedQuestions, a.TimeTakenSeconds, a.CompletedAt,
	).Scan(&a.ID, &a.CreatedAt)
	return translate(err)
}

// GetByID retrieves an attempt.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	row := r.pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM quiz_attempts WHERE id = $1`, id)
	if err := scanAttempt(row, &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

// ListByUserAndQuiz returns a user's attempts at a quiz, newest first.
func (r *AttemptRepository) ListByUserAndQuiz(ctx context.Context, userID, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM quiz_attempts WHERE user_id = $1 AND quiz_id = $2 ORDER BY completed_at DESC`,
		userID, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var a model.QuizAttempt
		if err := scanAttempt(rows, &a); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AttemptedDailyTasks returns the subset of taskIDs the user has already attempted.
func (r *AttemptRepository) AttemptedDailyTasks(ctx context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	done := make(map[uuid.UUID]bool)
	if len(taskIDs) == 0 {
		return done, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT daily_task_id FROM quiz_attempts WHERE user_id = $1 AND daily_task_id = ANY($2::uuid[])`,
		userID, taskIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		done[id] = true
	}
	return done, rows.Err()
}

// CountByDailyTask returns how many attempts reference a daily task.
func (r *AttemptRepository) CountByDailyTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quiz_attempts WHERE daily_task_id = $1`, taskID).Scan(&n)
	return n, err
}

// History returns a page of the user's attempts joined with quiz and task titles.
func (r *AttemptRepository) History(ctx context.Context, userID uuid.UUID, kind model.HistoryType, limit, offset int) ([]model.AttemptHistoryEntry, int, error) {
	filter := ""
	switch kind {
	case model.HistoryDaily:
		filter = " AND a.daily_task_id IS NOT NULL"
	case model.HistoryRegular:
		filter = " AND a.daily_task_id IS NULL"
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quiz_attempts a WHERE a.user_id = $1`+filter, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, fmt.Sprintf(
		`SELECT a.id, a.quiz_id, q.title, q.subject, q.topic, q.difficulty, a.daily_task_id, t.title,
			a.total_score, a.total_possible_score, a.correct_answers, a.wrong_answers, a.skipped_questions,
			a.time_taken_seconds, a.completed_at
		 FROM quiz_attempts a
		 JOIN quizzes q ON q.id = a.quiz_id
		 LEFT JOIN daily_tasks t ON t.id = a.daily_task_id
		 WHERE a.user_id = $1%s
		 ORDER BY a.completed_at DESC
		 LIMIT $2 OFFSET $3`, filter),
		userID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []model.AttemptHistoryEntry
	for rows.Next() {
		var e model.AttemptHistoryEntry
		if err := rows.Scan(&e.ID, &e.QuizID, &e.QuizTitle, &e.Subject, &e.Topic, &e.Difficulty, &e.DailyTaskID, &e.DailyTaskTitle,
			&e.Score, &e.MaxScore, &e.CorrectAnswers, &e.WrongAnswers, &e.SkippedQuestions,
			&e.TimeTaken, &e.CompletedAt); err != nil {
			return nil, 0, err
		}
		e.Type = "regular"
		if e.DailyTaskID != nil {
			e.Type = "daily"
		}
		e.Percentage = model.Percentage(e.Score, e.MaxScore)
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
