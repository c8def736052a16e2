package service

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/stemsi/neetquiz-backend/internal/model"
)

// Defaults applied when the generative engine leaves a field out.
const (
	DefaultQuizTitle       = "Generated Quiz"
	DefaultQuizDescription = "Quiz generated from images"
	DefaultTopic           = "General"
	DefaultSubject         = model.SubjectBiology
	DefaultDifficulty      = model.DifficultyMedium
	DefaultQuestionText    = "Question text missing"
	DefaultExplanation     = "Explanation not available"
)

var (
	errNoJSONObject  = errors.New("response contains no JSON object")
	errUnusableDraft = errors.New("response has no title, subject or questions")
)

// ─── Wire format (untrusted) ────────────────────────────────────────

type wireQuiz struct {
	QuizTitle       *string           `json:"quizTitle"`
	Title           *string           `json:"title"`
	QuizDescription *string           `json:"quizDescription"`
	Description     *string           `json:"description"`
	Topic           *string           `json:"topic"`
	Subject         *string           `json:"subject"`
	Difficulty      *string           `json:"difficulty"`
	Questions       []json.RawMessage `json:"questions"`
}

// isPreviousYear is not read: generated questions are never past-paper items.
type wireQuestion struct {
	QuestionText *string      `json:"questionText"`
	Options      []wireOption `json:"options"`
	Explanation  *string      `json:"explanation"`
	Subject      *string      `json:"subject"`
	Difficulty   *string      `json:"difficulty"`
	Year         *int         `json:"year"`
}

type wireOption struct {
	Text        *string `json:"text"`
	IsCorrect   *bool   `json:"isCorrect"`
	Explanation *string `json:"explanation"`
}

// decodeQuizDraft is the only place raw engine text is interpreted. It strips
// any wrapping around the outermost JSON object, decodes it loosely and fills
// every missing field with its default. repaired reports whether any default
// was applied.
func decodeQuizDraft(raw string) (draft model.QuizDraft, repaired bool, err error) {
	body, err := jsonObject(raw)
	if err != nil {
		return model.QuizDraft{}, false, err
	}

	var w wireQuiz
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return model.QuizDraft{}, false, err
	}

	title := firstNonEmpty(w.QuizTitle, w.Title)
	if title == "" && w.Subject == nil && len(w.Questions) == 0 {
		return model.QuizDraft{}, false, errUnusableDraft
	}

	d := defaulter{}
	draft = model.QuizDraft{
		Title:       d.str(title, DefaultQuizTitle),
		Description: d.str(firstNonEmpty(w.QuizDescription, w.Description), DefaultQuizDescription),
		Topic:       d.str(deref(w.Topic), DefaultTopic),
		Subject:     d.subject(deref(w.Subject), DefaultSubject),
		Difficulty:  d.difficulty(deref(w.Difficulty), DefaultDifficulty),
		Questions:   make([]model.QuestionDraft, 0, len(w.Questions)),
	}

	for _, rq := range w.Questions {
		var wq wireQuestion
		if err := json.Unmarshal(rq, &wq); err != nil {
			d.repaired = true
		}
		q := model.QuestionDraft{
			QuestionText:   d.str(deref(wq.QuestionText), DefaultQuestionText),
			Options:        make([]model.OptionDraft, 0, len(wq.Options)),
			Explanation:    d.str(deref(wq.Explanation), DefaultExplanation),
			Subject:        d.subject(deref(wq.Subject), draft.Subject),
			Difficulty:     d.difficulty(deref(wq.Difficulty), draft.Difficulty),
			IsPreviousYear: false,
			Year:           wq.Year,
		}
		if wq.Options == nil {
			d.repaired = true
		}
		for _, wo := range wq.Options {
			q.Options = append(q.Options, model.OptionDraft{
				Text:        strings.TrimSpace(deref(wo.Text)),
				IsCorrect:   wo.IsCorrect != nil && *wo.IsCorrect,
				Explanation: strings.TrimSpace(deref(wo.Explanation)),
			})
		}
		draft.Questions = append(draft.Questions, q)
	}

	return draft, d.repaired, nil
}

// jsonObject returns the text between the first '{' and the last '}'.
// Code fences and surrounding prose fall outside that span.
func jsonObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errNoJSONObject
	}
	return s[start : end+1], nil
}

// defaulter applies defaults and remembers whether it had to.
type defaulter struct {
	repaired bool
}

func (d *defaulter) str(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	d.repaired = true
	return def
}

func (d *defaulter) subject(v string, def model.Subject) model.Subject {
	if s := model.Subject(strings.ToLower(strings.TrimSpace(v))); s.Valid() {
		return s
	}
	d.repaired = true
	return def
}

func (d *defaulter) difficulty(v string, def model.Difficulty) model.Difficulty {
	if s := model.Difficulty(strings.ToLower(strings.TrimSpace(v))); s.Valid() {
		return s
	}
	d.repaired = true
	return def
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func firstNonEmpty(ps ...*string) string {
	for _, p := range ps {
		if v := strings.TrimSpace(deref(p)); v != "" {
			return v
		}
	}
	return ""
}

// FallbackQuizDraft is the fixed placeholder quiz returned when generation
// produced nothing usable. Every question has exactly one correct option.
func FallbackQuizDraft() model.QuizDraft {
	draft := model.QuizDraft{
		Title:       DefaultQuizTitle,
		Description: DefaultQuizDescription,
		Topic:       DefaultTopic,
		Subject:     DefaultSubject,
		Difficulty:  DefaultDifficulty,
		Questions:   make([]model.QuestionDraft, 5),
	}
	for i := range draft.Questions {
		draft.Questions[i] = model.QuestionDraft{
			QuestionText: "Sample question",
			Options: []model.OptionDraft{
				{Text: "Option 1", IsCorrect: true},
				{Text: "Option 2"},
				{Text: "Option 3"},
				{Text: "Option 4"},
			},
			Explanation: "This is a sample explanation for the correct answer",
			Subject:     DefaultSubject,
			Difficulty:  DefaultDifficulty,
		}
	}
	return draft
}

// ─── Daily context ──────────────────────────────────────────────────

type wireDailyContext struct {
	Title   *string `json:"title"`
	Context *string `json:"context"`
}

func decodeDailyContext(raw string) (title, context string, err error) {
	body, err := jsonObject(raw)
	if err != nil {
		return "", "", err
	}
	var w wireDailyContext
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return "", "", err
	}
	title, context = strings.TrimSpace(deref(w.Title)), strings.TrimSpace(deref(w.Context))
	if title == "" || context == "" {
		return "", "", errors.New("response missing title or context")
	}
	return title, context, nil
}
