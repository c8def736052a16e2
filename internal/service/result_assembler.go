package service

import (
	"github.com/google/uuid"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

// UnknownAnswer is shown when a question has no option flagged correct.
const UnknownAnswer = "Unknown"

// AssembleResults rebuilds the per-question view of a stored attempt. It only
// reads: totals come from the attempt and are never recomputed.
func AssembleResults(attempt *model.QuizAttempt, quiz *model.Quiz) model.ResultView {
	byQuestion := make(map[uuid.UUID]model.AttemptAnswer, len(attempt.Answers))
	for _, a := range attempt.Answers {
		byQuestion[a.QuestionID] = a
	}

	rows := make([]model.ResultRow, 0, len(quiz.Questions))
	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		row := model.ResultRow{
			QuestionID:    q.ID,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: UnknownAnswer,
			Explanation:   q.Explanation,
		}
		if c := q.CorrectOption(); c != nil {
			row.CorrectAnswer = c.Text
		}

		if ans, ok := byQuestion[q.ID]; ok {
			row.Points = ans.Points
			if ans.SelectedOptionID != nil {
				if opt := q.FindOption(*ans.SelectedOptionID); opt != nil {
					text := opt.Text
					row.UserAnswer = &text
					row.IsCorrect = opt.IsCorrect
				}
			}
		}
		rows = append(rows, row)
	}

	return model.ResultView{
		AttemptID:        attempt.ID,
		QuizID:           quiz.ID,
		QuizTitle:        quiz.Title,
		Date:             attempt.CompletedAt,
		TotalQuestions:   len(quiz.Questions),
		CorrectAnswers:   attempt.CorrectAnswers,
		WrongAnswers:     attempt.WrongAnswers,
		SkippedQuestions: attempt.SkippedQuestions,
		TotalScore:       attempt.TotalScore,
		MaxScore:         attempt.TotalPossibleScore,
		Percentage:       attempt.Percentage(),
		TimeTaken:        attempt.TimeTakenSeconds,
		Questions:        rows,
	}
}
