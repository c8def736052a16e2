package model

import (
	"time"

	"github.com/google/uuid"
)

// Quiz is an ordered set of question references generated from a context block.
type Quiz struct {
	ID               uuid.UUID   `json:"id"`
	OwnerID          uuid.UUID   `json:"owner_id"`
	Title            string      `json:"title"`
	Description      *string     `json:"description,omitempty"`
	ContextText      string      `json:"context_text"`
	ContextEmbedding []float32   `json:"-"`
	QuestionIDs      []uuid.UUID `json:"question_ids"`
	Subject          Subject     `json:"subject"`
	Topic            string      `json:"topic"`
	Difficulty       Difficulty  `json:"difficulty"`
	IsDailyQuiz      bool        `json:"is_daily_quiz"`
	DailyTaskID      *uuid.UUID  `json:"daily_task_id,omitempty"`
	ParentQuizID     *uuid.UUID  `json:"parent_quiz_id,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`

	// Questions is populated on read, in QuestionIDs order.
	Questions []Question `json:"questions,omitempty"`
}

// QuizDraft is the fully-typed output of synthesis, ready for persistence.
type QuizDraft struct {
	Title       string
	Description string
	Topic       string
	Subject     Subject
	Difficulty  Difficulty
	Questions   []QuestionDraft
}

// QuestionDraft is a question before it has an identity.
type QuestionDraft struct {
	QuestionText   string
	Options        []OptionDraft
	Explanation    string
	Subject        Subject
	Difficulty     Difficulty
	IsPreviousYear bool
	Year           *int
	Embedding      []float32
}

type OptionDraft struct {
	Text        string
	IsCorrect   bool
	Explanation string
}

// QuizMeta carries the persistence-side attributes that synthesis does not decide.
type QuizMeta struct {
	OwnerID          uuid.UUID
	ContextText      string
	ContextEmbedding []float32
	// Overrides applied on top of the draft when non-empty.
	Title        string
	Description  *string
	Topic        string
	Subject      Subject
	Difficulty   Difficulty
	// QuestionSubject, when set, replaces every question's subject.
	QuestionSubject Subject
	IsDailyQuiz     bool
	DailyTaskID     *uuid.UUID
	ParentQuizID    *uuid.UUID
}

// QuizPayload is the cached, student-facing view of a quiz (no answer key).
type QuizPayload struct {
	ID           uuid.UUID         `json:"id"`
	Title        string            `json:"title"`
	Description  *string           `json:"description,omitempty"`
	Subject      Subject           `json:"subject"`
	Topic        string            `json:"topic"`
	Difficulty   Difficulty        `json:"difficulty"`
	IsDailyQuiz  bool              `json:"is_daily_quiz"`
	DailyTaskID  *uuid.UUID        `json:"daily_task_id,omitempty"`
	ParentQuizID *uuid.UUID        `json:"parent_quiz_id,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	Questions    []StudentQuestion `json:"questions"`
}

// Payload strips the answer key from a populated quiz.
func (q *Quiz) Payload() QuizPayload {
	out := QuizPayload{
		ID:           q.ID,
		Title:        q.Title,
		Description:  q.Description,
		Subject:      q.Subject,
		Topic:        q.Topic,
		Difficulty:   q.Difficulty,
		IsDailyQuiz:  q.IsDailyQuiz,
		DailyTaskID:  q.DailyTaskID,
		ParentQuizID: q.ParentQuizID,
		CreatedAt:    q.CreatedAt,
		Questions:    make([]StudentQuestion, 0, len(q.Questions)),
	}
	for _, qs := range q.Questions {
		sq := StudentQuestion{
			ID:           qs.ID,
			QuestionText: qs.QuestionText,
			Subject:      qs.Subject,
			Difficulty:   qs.Difficulty,
			Options:      make([]StudentOption, 0, len(qs.Options)),
		}
		for _, o := range qs.Options {
			sq.Options = append(sq.Options, StudentOption{ID: o.ID, Text: o.Text})
		}
		out.Questions = append(out.Questions, sq)
	}
	return out
}
