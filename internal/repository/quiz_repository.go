package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// QuizRepository handles quiz data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

const quizColumns = `id, owner_id, title, description, context_text, context_embedding, question_ids,
	subject, topic, difficulty, is_daily_quiz, daily_task_id, parent_quiz_id, created_at`

func scanQuiz(row interface{ Scan(...any) error }, q *model.Quiz) error {
	return row.Scan(&q.ID, &q.OwnerID, &q.Title, &q.Description, &q.ContextText, &q.ContextEmbedding, &q.QuestionIDs,
		&q.Subject, &q.Topic, &q.Difficulty, &q.IsDailyQuiz, &q.DailyTaskID, &q.ParentQuizID, &q.CreatedAt)
}

// Create inserts a quiz. A second daily quiz for the same (owner, task) returns ErrDuplicate.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO quizzes (owner_id, title, description, context_text, context_embedding, question_ids,
			subject, topic, difficulty, is_daily_quiz, daily_task_id, parent_quiz_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id, created_at`,
		q.OwnerID, q.Title, q.Description, q.ContextText, q.ContextEmbedding, q.QuestionIDs,
		string(q.Subject), q.Topic, string(q.Difficulty), q.IsDailyQuiz, q.DailyTaskID, q.ParentQuizID,
	).Scan(&q.ID, &q.CreatedAt)
	return translate(err)
}

// GetByID retrieves a quiz without its questions.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	var q model.Quiz
	row := r.pool.QueryRow(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id)
	if err := scanQuiz(row, &q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

// GetByOwnerAndDailyTask returns the user's quiz for a daily task, if one exists.
func (r *QuizRepository) GetByOwnerAndDailyTask(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Quiz, error) {
	var q model.Quiz
	row := r.pool.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE owner_id = $1 AND daily_task_id = $2`, ownerID, taskID)
	if err := scanQuiz(row, &q); err != nil {
		return nil, translate(err)
	}
	return &q, nil
}

// CountByDailyTask returns how many quizzes reference a daily task.
func (r *QuizRepository) CountByDailyTask(ctx context.Context, taskID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM quizzes WHERE daily_task_id = $1`, taskID).Scan(&n)
	return n, err
}
