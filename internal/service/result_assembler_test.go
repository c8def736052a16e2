package service

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

func TestAssembleResults(t *testing.T) {
	qs := []model.Question{mcq("q1", 0), mcq("q2", 2), mcq("q3", -1)}
	quiz := &model.Quiz{ID: uuid.New(), Title: "Mechanics", Questions: qs}

	res := Score(qs, []model.SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOptionID: optionRef(qs[0], 0)},
		{QuestionID: qs[1].ID, SelectedOptionID: optionRef(qs[1], 1)},
	})
	attempt := &model.QuizAttempt{
		ID:                 uuid.New(),
		QuizID:             quiz.ID,
		Answers:            res.Answers,
		TotalScore:         res.TotalScore,
		TotalPossibleScore: res.TotalPossibleScore,
		CorrectAnswers:     res.Correct,
		WrongAnswers:       res.Wrong,
		SkippedQuestions:   res.Skipped,
		TimeTakenSeconds:   120,
		CompletedAt:        time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	view := AssembleResults(attempt, quiz)

	if view.TotalQuestions != 3 || view.TotalScore != 3 || view.MaxScore != 12 || view.Percentage != 25 {
		t.Errorf("totals = %+v", view)
	}
	if view.QuizTitle != "Mechanics" || view.TimeTaken != 120 || !view.Date.Equal(attempt.CompletedAt) {
		t.Errorf("header = %+v", view)
	}

	rows := view.Questions
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	if !rows[0].IsCorrect || rows[0].Points != 4 || rows[0].UserAnswer == nil || *rows[0].UserAnswer != qs[0].Options[0].Text {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].IsCorrect || rows[1].Points != -1 || rows[1].CorrectAnswer != qs[1].Options[2].Text {
		t.Errorf("row 1 = %+v", rows[1])
	}
	if rows[2].UserAnswer != nil || rows[2].Points != 0 || rows[2].CorrectAnswer != UnknownAnswer {
		t.Errorf("row 2 = %+v", rows[2])
	}
	if rows[2].Explanation != "q3 explained" {
		t.Errorf("explanation = %q", rows[2].Explanation)
	}

	again, _ := json.Marshal(AssembleResults(attempt, quiz))
	first, _ := json.Marshal(view)
	if !bytes.Equal(first, again) {
		t.Error("assembling twice should produce identical output")
	}
}

func TestAssembleResultsUsesStoredTotals(t *testing.T) {
	q := mcq("only", 0)
	quiz := &model.Quiz{ID: uuid.New(), Questions: []model.Question{q}}
	attempt := &model.QuizAttempt{
		ID:                 uuid.New(),
		TotalScore:         40,
		TotalPossibleScore: 40,
		CorrectAnswers:     10,
	}

	view := AssembleResults(attempt, quiz)
	if view.TotalScore != 40 || view.CorrectAnswers != 10 || view.Percentage != 100 {
		t.Errorf("stored totals must be reported as-is, got %+v", view)
	}
	if view.Questions[0].UserAnswer != nil || view.Questions[0].Points != 0 {
		t.Errorf("question without a recorded answer = %+v", view.Questions[0])
	}
}
