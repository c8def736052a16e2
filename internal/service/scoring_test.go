package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// mcq builds a four-option question whose correct option is at index correct.
// A negative index produces a question with no correct option.
func mcq(text string, correct int) model.Question {
	q := model.Question{
		ID:           uuid.New(),
		QuestionText: text,
		Explanation:  text + " explained",
		Subject:      model.SubjectPhysics,
		Difficulty:   model.DifficultyMedium,
	}
	for i := 0; i < 4; i++ {
		q.Options = append(q.Options, model.Option{
			ID:        uuid.New(),
			Text:      text + " option " + string(rune('A'+i)),
			IsCorrect: i == correct,
		})
	}
	return q
}

func optionRef(q model.Question, i int) *uuid.UUID {
	id := q.Options[i].ID
	return &id
}

func TestScore(t *testing.T) {
	qs := []model.Question{mcq("q1", 0), mcq("q2", 1), mcq("q3", 2), mcq("q4", 3), mcq("q5", 0)}

	res := Score(qs, []model.SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOptionID: optionRef(qs[0], 0)},
		{QuestionID: qs[1].ID, SelectedOptionID: optionRef(qs[1], 0)},
		{QuestionID: qs[3].ID, SelectedOptionID: optionRef(qs[3], 3)},
		{QuestionID: qs[4].ID, SelectedOptionID: optionRef(qs[4], 2)},
	})

	if res.TotalScore != 6 {
		t.Errorf("score = %d, want 6", res.TotalScore)
	}
	if res.TotalPossibleScore != 20 {
		t.Errorf("possible = %d, want 20", res.TotalPossibleScore)
	}
	if res.Correct != 2 || res.Wrong != 2 || res.Skipped != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/2/1", res.Correct, res.Wrong, res.Skipped)
	}
	if len(res.Answers) != len(qs) {
		t.Fatalf("answers = %d, want %d", len(res.Answers), len(qs))
	}

	wantPoints := []int{4, -1, 0, 4, -1}
	for i, a := range res.Answers {
		if a.QuestionID != qs[i].ID {
			t.Errorf("answer %d is for %s, want quiz order", i, a.QuestionID)
		}
		if a.Points != wantPoints[i] {
			t.Errorf("answer %d points = %d, want %d", i, a.Points, wantPoints[i])
		}
	}
	if res.Answers[2].SelectedOptionID != nil {
		t.Error("skipped answer should have no selected option")
	}
}

func TestScoreEdgeCases(t *testing.T) {
	q := mcq("only", 1)

	tests := []struct {
		name      string
		submitted []model.SubmittedAnswer
		wantScore int
		wantSkip  int
	}{
		{
			name:      "no submissions",
			wantScore: 0,
			wantSkip:  1,
		},
		{
			name: "question outside quiz ignored",
			submitted: []model.SubmittedAnswer{
				{QuestionID: uuid.New(), SelectedOptionID: optionRef(q, 1)},
			},
			wantScore: 0,
			wantSkip:  1,
		},
		{
			name: "first submission wins",
			submitted: []model.SubmittedAnswer{
				{QuestionID: q.ID, SelectedOptionID: optionRef(q, 0)},
				{QuestionID: q.ID, SelectedOptionID: optionRef(q, 1)},
			},
			wantScore: -1,
		},
		{
			name: "unknown option counts as wrong",
			submitted: []model.SubmittedAnswer{
				{QuestionID: q.ID, SelectedOptionID: func() *uuid.UUID { id := uuid.New(); return &id }()},
			},
			wantScore: -1,
		},
		{
			name: "explicit null selection is skipped",
			submitted: []model.SubmittedAnswer{
				{QuestionID: q.ID},
			},
			wantScore: 0,
			wantSkip:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Score([]model.Question{q}, tt.submitted)
			if res.TotalScore != tt.wantScore {
				t.Errorf("score = %d, want %d", res.TotalScore, tt.wantScore)
			}
			if res.Skipped != tt.wantSkip {
				t.Errorf("skipped = %d, want %d", res.Skipped, tt.wantSkip)
			}
			if res.Correct+res.Wrong+res.Skipped != 1 {
				t.Errorf("counts do not cover the quiz: %+v", res)
			}
		})
	}
}

func TestScoreNegativeTotal(t *testing.T) {
	qs := []model.Question{mcq("a", 0), mcq("b", 0)}
	res := Score(qs, []model.SubmittedAnswer{
		{QuestionID: qs[0].ID, SelectedOptionID: optionRef(qs[0], 1)},
		{QuestionID: qs[1].ID, SelectedOptionID: optionRef(qs[1], 2)},
	})
	if res.TotalScore != -2 {
		t.Errorf("score = %d, want -2 (not clamped)", res.TotalScore)
	}
	if p := model.Percentage(res.TotalScore, res.TotalPossibleScore); p != -25 {
		t.Errorf("percentage = %v, want -25", p)
	}
}
