package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/repository"
	ws "github.com/stemsi/neetquiz-backend/internal/websocket"
)

var nopLog = zerolog.Nop()

// ─── Generative engine ──────────────────────────────────────────────

type fakeGenerator struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
}

// Generate returns the next scripted reply; the last one repeats.
func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)

	var err error
	if len(g.errs) > 0 {
		err = g.errs[min(i, len(g.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(g.replies) == 0 {
		return "", nil
	}
	return g.replies[min(i, len(g.replies)-1)], nil
}

type fakeEmbedder struct {
	vec []float32
	err error
}

func (e fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return e.vec, e.err
}

const validQuizJSON = `{
  "quizTitle": "Cell Biology",
  "quizDescription": "Organelles and their functions",
  "topic": "Cell",
  "subject": "biology",
  "difficulty": "easy",
  "questions": [
    {
      "questionText": "Which organelle produces ATP?",
      "options": [
        {"text": "Mitochondria", "isCorrect": true, "explanation": "Site of respiration"},
        {"text": "Ribosome", "isCorrect": false},
        {"text": "Golgi body", "isCorrect": false},
        {"text": "Lysosome", "isCorrect": false}
      ],
      "explanation": "Mitochondria are the powerhouse of the cell.",
      "subject": "biology",
      "difficulty": "easy"
    },
    {
      "questionText": "Which organelle synthesises proteins?",
      "options": [
        {"text": "Ribosome", "isCorrect": true},
        {"text": "Vacuole", "isCorrect": false},
        {"text": "Nucleolus", "isCorrect": false},
        {"text": "Centriole", "isCorrect": false}
      ],
      "explanation": "Ribosomes translate mRNA.",
      "subject": "biology",
      "difficulty": "medium"
    }
  ]
}`

// ─── Repositories ───────────────────────────────────────────────────

type fakeQuestionRepo struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]model.Question
	calls int
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{byID: map[uuid.UUID]model.Question{}}
}

func (r *fakeQuestionRepo) CreateMany(_ context.Context, qs []model.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, q := range qs {
		r.byID[q.ID] = q
	}
	return nil
}

func (r *fakeQuestionRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.byID[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeQuizRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*model.Quiz
	createErr error
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{byID: map[uuid.UUID]*model.Quiz{}}
}

func (r *fakeQuizRepo) Create(_ context.Context, q *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if q.DailyTaskID != nil {
		for _, existing := range r.byID {
			if existing.OwnerID == q.OwnerID && existing.DailyTaskID != nil && *existing.DailyTaskID == *q.DailyTaskID {
				return repository.ErrDuplicate
			}
		}
	}
	q.ID = uuid.New()
	q.CreatedAt = time.Now()
	cp := *q
	cp.Questions = nil
	r.byID[q.ID] = &cp
	return nil
}

func (r *fakeQuizRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *q
	return &cp, nil
}

func (r *fakeQuizRepo) GetByOwnerAndDailyTask(_ context.Context, ownerID, taskID uuid.UUID) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.byID {
		if q.OwnerID == ownerID && q.DailyTaskID != nil && *q.DailyTaskID == taskID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeQuizRepo) CountByDailyTask(_ context.Context, taskID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, q := range r.byID {
		if q.DailyTaskID != nil && *q.DailyTaskID == taskID {
			n++
		}
	}
	return n, nil
}

type fakeDailyTaskRepo struct {
	mu        sync.Mutex
	tasks     []*model.DailyTask
	createErr map[model.Subject]error
}

func (r *fakeDailyTaskRepo) Create(_ context.Context, t *model.DailyTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.createErr[t.Subject]; err != nil {
		return err
	}
	if t.IsActive && r.activeLocked(t.Date, t.Subject, uuid.Nil) {
		return repository.ErrDuplicate
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks = append(r.tasks, &cp)
	return nil
}

func (r *fakeDailyTaskRepo) activeLocked(date time.Time, subject model.Subject, except uuid.UUID) bool {
	for _, t := range r.tasks {
		if t.ID != except && t.IsActive && t.Subject == subject && t.Date.Equal(date) {
			return true
		}
	}
	return false
}

func (r *fakeDailyTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*model.DailyTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeDailyTaskRepo) ExistsActive(_ context.Context, date time.Time, subject model.Subject) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeLocked(date, subject, uuid.Nil), nil
}

func (r *fakeDailyTaskRepo) ListActiveByDate(_ context.Context, date time.Time) ([]model.DailyTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DailyTask
	for _, t := range r.tasks {
		if t.IsActive && t.Date.Equal(date) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeDailyTaskRepo) List(_ context.Context, f model.DailyTaskFilter) ([]model.DailyTask, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.DailyTask
	for _, t := range r.tasks {
		if f.Subject != nil && t.Subject != *f.Subject {
			continue
		}
		if f.Date != nil && !t.Date.Equal(*f.Date) {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (r *fakeDailyTaskRepo) Update(_ context.Context, t *model.DailyTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.tasks {
		if existing.ID == t.ID {
			if t.IsActive && r.activeLocked(t.Date, t.Subject, t.ID) {
				return repository.ErrDuplicate
			}
			cp := *t
			r.tasks[i] = &cp
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeDailyTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeAttemptRepo struct {
	mu       sync.Mutex
	attempts []*model.QuizAttempt
}

func (r *fakeAttemptRepo) Create(_ context.Context, a *model.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.DailyTaskID != nil {
		for _, existing := range r.attempts {
			if existing.UserID == a.UserID && existing.DailyTaskID != nil && *existing.DailyTaskID == *a.DailyTaskID {
				return repository.ErrDuplicate
			}
		}
	}
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	r.attempts = append(r.attempts, &cp)
	return nil
}

func (r *fakeAttemptRepo) GetByID(_ context.Context, id uuid.UUID) (*model.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.attempts {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAttemptRepo) ListByUserAndQuiz(_ context.Context, userID, quizID uuid.UUID) ([]model.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.QuizAttempt
	for i := len(r.attempts) - 1; i >= 0; i-- {
		if a := r.attempts[i]; a.UserID == userID && a.QuizID == quizID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttemptRepo) AttemptedDailyTasks(_ context.Context, userID uuid.UUID, taskIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	done := map[uuid.UUID]bool{}
	for _, a := range r.attempts {
		if a.UserID != userID || a.DailyTaskID == nil {
			continue
		}
		for _, id := range taskIDs {
			if id == *a.DailyTaskID {
				done[id] = true
			}
		}
	}
	return done, nil
}

func (r *fakeAttemptRepo) CountByDailyTask(_ context.Context, taskID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.attempts {
		if a.DailyTaskID != nil && *a.DailyTaskID == taskID {
			n++
		}
	}
	return n, nil
}

func (r *fakeAttemptRepo) History(_ context.Context, userID uuid.UUID, _ model.HistoryType, _, _ int) ([]model.AttemptHistoryEntry, int, error) {
	return nil, 0, nil
}

// ─── Progress ───────────────────────────────────────────────────────

type recordingProgress struct {
	mu     sync.Mutex
	events []ws.ProgressEvent
}

func (p *recordingProgress) Publish(_ context.Context, ev ws.ProgressEvent) {
	p.mu.Lock()
	p.events = append(p.events, ev)
	p.mu.Unlock()
}

func (p *recordingProgress) count(event ws.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, ev := range p.events {
		if ev.Event == event {
			n++
		}
	}
	return n
}
