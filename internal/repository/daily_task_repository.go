package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// DailyTaskRepository handles daily task data access.
type DailyTaskRepository struct {
	pool *pgxpool.Pool
}

// NewDailyTaskRepository creates a new DailyTaskRepository.
func NewDailyTaskRepository(pool *pgxpool.Pool) *DailyTaskRepository {
	return &DailyTaskRepository{pool: pool}
}

const dailyTaskColumns = `id, title, date, subject, context_text, context_embedding, is_active, is_ai_generated,
	created_by, created_at, updated_at`

func scanDailyTask(row interface{ Scan(...any) error }, t *model.DailyTask) error {
	return row.Scan(&t.ID, &t.Title, &t.Date, &t.Subject, &t.ContextText, &t.ContextEmbedding,
		&t.IsActive, &t.IsAIGenerated, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a daily task. The partial unique index on (date, subject)
// turns a second active task for the same day into ErrDuplicate.
func (r *DailyTaskRepository) Create(ctx context.Context, t *model.DailyTask) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO daily_tasks (title, date, subject, context_text, context_embedding, is_active, is_ai_generated, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Date, string(t.Subject), t.ContextText, t.ContextEmbedding, t.IsActive, t.IsAIGenerated, t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

// GetByID retrieves a daily task.
func (r *DailyTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.DailyTask, error) {
	var t model.DailyTask
	row := r.pool.QueryRow(ctx, `SELECT `+dailyTaskColumns+` FROM daily_tasks WHERE id = $1`, id)
	if err := scanDailyTask(row, &t); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// ExistsActive reports whether an active task occupies (date, subject).
func (r *DailyTaskRepository) ExistsActive(ctx context.Context, date time.Time, subject model.Subject) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM daily_tasks WHERE date = $1 AND subject = $2 AND is_active)`,
		date, string(subject),
	).Scan(&exists)
	return exists, err
}

// ListActiveByDate returns the active tasks scheduled for date, ordered by subject.
func (r *DailyTaskRepository) ListActiveByDate(ctx context.Context, date time.Time) ([]model.DailyTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+dailyTaskColumns+` FROM daily_tasks WHERE date = $1 AND is_active ORDER BY subject`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.DailyTask
	for rows.Next() {
		var t model.DailyTask
		if err := scanDailyTask(rows, &t); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// List returns tasks matching the filter, newest date first, plus the total count.
func (r *DailyTaskRepository) List(ctx context.Context, f model.DailyTaskFilter) ([]model.DailyTask, int, error) {
	var conds []string
	var args []any
	if f.Date != nil {
		args = append(args, *f.Date)
		conds = append(conds, fmt.Sprintf("date = $%d", len(args)))
	}
	if f.Subject != nil {
		args = append(args, string(*f.Subject))
		conds = append(conds, fmt.Sprintf("subject = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM daily_tasks`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, f.Offset)
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT `+dailyTaskColumns+` FROM daily_tasks%s ORDER BY date DESC, subject LIMIT $%d OFFSET $%d`,
			where, len(args)-1, len(args)),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []model.DailyTask
	for rows.Next() {
		var t model.DailyTask
		if err := scanDailyTask(rows, &t); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	return tasks, total, rows.Err()
}

// Update writes the administratively editable fields. Reactivating a task on an
// occupied (date, subject) returns ErrDuplicate.
func (r *DailyTaskRepository) Update(ctx context.Context, t *model.DailyTask) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE daily_tasks SET title = $1, context_text = $2, context_embedding = $3, is_active = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		t.Title, t.ContextText, t.ContextEmbedding, t.IsActive, t.ID,
	).Scan(&t.UpdatedAt)
	return translate(err)
}

// Delete hard-deletes a task. Foreign keys from quizzes and attempts return ErrReferenced.
func (r *DailyTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM daily_tasks WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
