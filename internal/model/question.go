package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinOptions is the minimum number of answer options a question carries.
const MinOptions = 4

// Question validation failures.
var (
	ErrCorrectOptionCount = errors.New("exactly one option must be correct")
	ErrTooFewOptions      = fmt.Errorf("a question needs at least %d options", MinOptions)
	ErrQuestionText       = errors.New("question text is required")
	ErrOptionText         = errors.New("option text is required")
	ErrInvalidSubject     = errors.New("subject must be physics, chemistry or biology")
	ErrInvalidDifficulty  = errors.New("difficulty must be easy, medium or hard")
	ErrYearRequired       = errors.New("year is required for previous-year questions")
)

// Option is a single answer choice.
type Option struct {
	ID          uuid.UUID `json:"id"`
	Text        string    `json:"text"`
	IsCorrect   bool      `json:"is_correct"`
	Explanation string    `json:"explanation,omitempty"`
}

// Question represents a single multiple-choice question.
type Question struct {
	ID             uuid.UUID  `json:"id"`
	QuestionText   string     `json:"question_text"`
	Options        []Option   `json:"options"`
	Explanation    string     `json:"explanation,omitempty"`
	Subject        Subject    `json:"subject"`
	Difficulty     Difficulty `json:"difficulty"`
	IsPreviousYear bool       `json:"is_previous_year"`
	Year           *int       `json:"year,omitempty"`
	// Embedding is nil when no embedding was computed.
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// CorrectOption returns the option flagged correct, or nil.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// FindOption returns the option with the given id, or nil.
func (q *Question) FindOption(id uuid.UUID) *Option {
	for i := range q.Options {
		if q.Options[i].ID == id {
			return &q.Options[i]
		}
	}
	return nil
}

// CheckCorrectOption enforces the one-correct-option invariant.
func (q *Question) CheckCorrectOption() error {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	if n != 1 {
		return fmt.Errorf("%w (found %d)", ErrCorrectOptionCount, n)
	}
	return nil
}

// Validate checks the structural rules of a question. The correct-option
// invariant is checked first so its failure is reported in preference.
func (q *Question) Validate() error {
	if err := q.CheckCorrectOption(); err != nil {
		return err
	}
	if len(q.Options) < MinOptions {
		return ErrTooFewOptions
	}
	if q.QuestionText == "" {
		return ErrQuestionText
	}
	for _, o := range q.Options {
		if o.Text == "" {
			return ErrOptionText
		}
	}
	if !q.Subject.Valid() {
		return ErrInvalidSubject
	}
	if !q.Difficulty.Valid() {
		return ErrInvalidDifficulty
	}
	if q.IsPreviousYear && q.Year == nil {
		return ErrYearRequired
	}
	return nil
}

// StudentQuestion is a question without correctness flags or explanations.
type StudentQuestion struct {
	ID           uuid.UUID       `json:"id"`
	QuestionText string          `json:"question_text"`
	Options      []StudentOption `json:"options"`
	Subject      Subject         `json:"subject"`
	Difficulty   Difficulty      `json:"difficulty"`
}

type StudentOption struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}
