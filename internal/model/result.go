package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultRow is the per-question view of a stored attempt.
type ResultRow struct {
	QuestionID    uuid.UUID `json:"id"`
	QuestionText  string    `json:"question_text"`
	Options       []Option  `json:"options"`
	CorrectAnswer string    `json:"correct_answer"`
	UserAnswer    *string   `json:"user_answer"`
	IsCorrect     bool      `json:"is_correct"`
	Points        int       `json:"points"`
	Explanation   string    `json:"explanation"`
}

// ResultView is a full reconstruction of one attempt against its quiz.
type ResultView struct {
	AttemptID        uuid.UUID   `json:"attempt_id"`
	QuizID           uuid.UUID   `json:"quiz_id"`
	QuizTitle        string      `json:"quiz_title"`
	Date             time.Time   `json:"date"`
	TotalQuestions   int         `json:"total_questions"`
	CorrectAnswers   int         `json:"correct_answers"`
	WrongAnswers     int         `json:"incorrect_answers"`
	SkippedQuestions int         `json:"skipped_questions"`
	TotalScore       int         `json:"total_score"`
	MaxScore         int         `json:"max_score"`
	Percentage       float64     `json:"percentage"`
	TimeTaken        int         `json:"time_taken"`
	Questions        []ResultRow `json:"questions"`
}
