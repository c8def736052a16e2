package service

import (
	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// ScoreResult is the outcome of scoring one submission.
type ScoreResult struct {
	Answers            []model.AttemptAnswer
	TotalScore         int
	TotalPossibleScore int
	Correct            int
	Wrong              int
	Skipped            int
}

// Score grades submitted answers against the quiz's questions with the fixed
// +4 / -1 / 0 scheme. It produces one answer per question in quiz order.
// Submissions for questions outside the quiz are ignored, the first submission
// for a question wins, and an option id that is not one of the question's
// options counts as wrong. The total is not clamped at zero.
func Score(questions []model.Question, submitted []model.SubmittedAnswer) ScoreResult {
	selected := make(map[uuid.UUID]*uuid.UUID, len(submitted))
	for _, a := range submitted {
		if _, seen := selected[a.QuestionID]; seen {
			continue
		}
		selected[a.QuestionID] = a.SelectedOptionID
	}

	res := ScoreResult{
		Answers:            make([]model.AttemptAnswer, len(questions)),
		TotalPossibleScore: model.PointsCorrect * len(questions),
	}
	for i := range questions {
		q := &questions[i]
		ans := model.AttemptAnswer{QuestionID: q.ID}

		optID := selected[q.ID]
		switch {
		case optID == nil:
			ans.Points = model.PointsSkipped
			res.Skipped++
		case isCorrectChoice(q, *optID):
			id := *optID
			ans.SelectedOptionID = &id
			ans.IsCorrect = true
			ans.Points = model.PointsCorrect
			res.Correct++
		default:
			id := *optID
			ans.SelectedOptionID = &id
			ans.Points = model.PointsWrong
			res.Wrong++
		}

		res.TotalScore += ans.Points
		res.Answers[i] = ans
	}
	return res
}

func isCorrectChoice(q *model.Question, optionID uuid.UUID) bool {
	opt := q.FindOption(optionID)
	return opt != nil && opt.IsCorrect
}
