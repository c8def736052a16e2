package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// CreateMany bulk-inserts questions whose ids were assigned by the caller.
func (r *QuestionRepository) CreateMany(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"questions"},
		[]string{"id", "question_text", "options", "explanation", "subject", "difficulty", "is_previous_year", "year", "embedding"},
		pgx.CopyFromSlice(len(questions), func(i int) ([]any, error) {
			q := questions[i]
			return []any{q.ID, q.QuestionText, q.Options, q.Explanation, string(q.Subject), string(q.Difficulty), q.IsPreviousYear, q.Year, q.Embedding}, nil
		}),
	)
	return translate(err)
}

// GetByIDs loads questions and returns them in the order of ids.
// Ids with no stored question are skipped.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Question, error) {
	if len(ids) == 0 {
		return []model.Question{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_text, options, explanation, subject, difficulty, is_previous_year, year, embedding, created_at
		 FROM questions WHERE id = ANY($1::uuid[])`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]model.Question, len(ids))
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.QuestionText, &q.Options, &q.Explanation, &q.Subject, &q.Difficulty,
			&q.IsPreviousYear, &q.Year, &q.Embedding, &q.CreatedAt); err != nil {
			return nil, err
		}
		byID[q.ID] = q
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	questions := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
