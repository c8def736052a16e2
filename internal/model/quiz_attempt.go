package model

import (
	"time"

	"github.com/google/uuid"
)

// Points awarded per answer. The scheme is fixed and not configurable per quiz.
const (
	PointsCorrect = 4
	PointsWrong   = -1
	PointsSkipped = 0
)

// AttemptAnswer is one question's outcome inside an attempt.
// A nil SelectedOptionID means the question was skipped.
type AttemptAnswer struct {
	QuestionID       uuid.UUID  `json:"question_id"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	Points           int        `json:"points"`
	IsCorrect        bool       `json:"is_correct"`
}

// QuizAttempt is one user's scored submission. It is never mutated after creation.
type QuizAttempt struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             uuid.UUID       `json:"user_id"`
	QuizID             uuid.UUID       `json:"quiz_id"`
	DailyTaskID        *uuid.UUID      `json:"daily_task_id,omitempty"`
	Answers            []AttemptAnswer `json:"answers"`
	TotalScore         int             `json:"total_score"`
	TotalPossibleScore int             `json:"total_possible_score"`
	CorrectAnswers     int             `json:"correct_answers"`
	WrongAnswers       int             `json:"wrong_answers"`
	SkippedQuestions   int             `json:"skipped_questions"`
	TimeTakenSeconds   int             `json:"time_taken"`
	CompletedAt        time.Time       `json:"completed_at"`
	CreatedAt          time.Time       `json:"created_at"`
}

// Percentage returns the score as a percentage rounded to two decimals.
func (a *QuizAttempt) Percentage() float64 {
	return Percentage(a.TotalScore, a.TotalPossibleScore)
}

// Percentage computes score/max*100 rounded to two decimals; zero when max is zero.
func Percentage(score, max int) float64 {
	if max == 0 {
		return 0
	}
	p := float64(score) / float64(max) * 100
	if p < 0 {
		return float64(int64(p*100-0.5)) / 100
	}
	return float64(int64(p*100+0.5)) / 100
}

// SubmittedAnswer is one entry of an answer submission.
type SubmittedAnswer struct {
	QuestionID       uuid.UUID  `json:"question_id" binding:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
}

// SubmitAttemptRequest is the payload for submitting answers to a quiz.
type SubmitAttemptRequest struct {
	Answers   []SubmittedAnswer `json:"answers" binding:"required,dive"`
	TimeTaken int               `json:"time_taken" binding:"min=0"`
}

// AttemptSummary is returned after a submission is scored.
type AttemptSummary struct {
	AttemptID          uuid.UUID `json:"attempt_id"`
	Score              int       `json:"score"`
	TotalPossibleScore int       `json:"total_possible_score"`
	CorrectAnswers     int       `json:"correct_answers"`
	WrongAnswers       int       `json:"wrong_answers"`
	SkippedQuestions   int       `json:"skipped_questions"`
	Percentage         float64   `json:"percentage"`
	TimeTaken          int       `json:"time_taken"`
}

// HistoryType filters attempt history.
type HistoryType string

const (
	HistoryAll     HistoryType = "all"
	HistoryDaily   HistoryType = "daily"
	HistoryRegular HistoryType = "regular"
)

// AttemptHistoryEntry is one row of a user's attempt history.
type AttemptHistoryEntry struct {
	ID                 uuid.UUID  `json:"id"`
	Type               string     `json:"type"`
	QuizID             uuid.UUID  `json:"quiz_id"`
	QuizTitle          string     `json:"quiz_title"`
	Subject            Subject    `json:"subject"`
	Topic              string     `json:"topic"`
	Difficulty         Difficulty `json:"difficulty"`
	DailyTaskID        *uuid.UUID `json:"daily_task_id,omitempty"`
	DailyTaskTitle     *string    `json:"daily_task_title,omitempty"`
	Score              int        `json:"score"`
	MaxScore           int        `json:"max_score"`
	Percentage         float64    `json:"percentage"`
	CorrectAnswers     int        `json:"correct_answers"`
	WrongAnswers       int        `json:"wrong_answers"`
	SkippedQuestions   int        `json:"skipped_questions"`
	TimeTaken          int        `json:"time_taken"`
	CompletedAt        time.Time  `json:"completed_at"`
}
