package service

import (
	"fmt"
	"strings"

	"github.com/stemsi/neetquiz-backend/internal/model"
)

const quizPromptTemplate = `You are an expert NEET educator. From the following content, generate a complete quiz.

Return ONLY valid JSON (no markdown, no backticks) with exactly these fields:
- quizTitle (string)
- quizDescription (string)
- topic (string)
- subject (one of: physics, chemistry, biology)
- difficulty (one of: easy, medium, hard)
- questions (array of exactly 5 objects), each with:
  - questionText (string)
  - options (array of exactly 4 objects with "text" and "isCorrect"; exactly one isCorrect is true)
  - explanation (string explaining why the correct answer is right)
  - subject (same as the quiz subject)
  - difficulty (same as the quiz difficulty)
  - isPreviousYear (false)
%s
Content to analyze:
%s
`

// buildQuizPrompt renders the quiz generation prompt. avoid lists question
// texts the engine is asked not to repeat; the engine may ignore it.
func buildQuizPrompt(contextText string, avoid []string) string {
	var extra strings.Builder
	if len(avoid) > 0 {
		extra.WriteString("\nDo NOT repeat or closely paraphrase any of these existing questions:\n")
		for _, q := range avoid {
			extra.WriteString("- ")
			extra.WriteString(strings.TrimSpace(q))
			extra.WriteString("\n")
		}
	}
	return fmt.Sprintf(quizPromptTemplate, extra.String(), contextText)
}

func buildDailyContextPrompt(subject model.Subject) string {
	return fmt.Sprintf(`You are an expert NEET educator. Generate a comprehensive NEET %[1]s context for a daily challenge.

Return ONLY valid JSON (no markdown, no backticks) in the form:
{ "title": "Specific Topic Title", "context": "Full educational content..." }

- The title must be a specific topic name (e.g. "Thermodynamics", "Chemical Bonding", "Human Respiratory System").
- The context must be 300-500 words of accurate educational content on an important NEET %[1]s topic,
  suitable for generating 5-10 multiple choice questions.
`, subject)
}

const dailyContextFixPrompt = `Your previous response was not valid JSON. Provide ONLY valid JSON in exactly this format:
{
  "title": "Specific Topic Title",
  "context": "Detailed educational content here..."
}
No additional text outside the JSON.`

var fallbackDailyTitles = map[model.Subject]string{
	model.SubjectPhysics:   "Laws of Motion",
	model.SubjectChemistry: "Chemical Bonding",
	model.SubjectBiology:   "Human Digestive System",
}

func fallbackDailyContext(subject model.Subject) DailyContext {
	title, ok := fallbackDailyTitles[subject]
	if !ok {
		title = fmt.Sprintf("%s Daily Challenge", subject)
	}
	return DailyContext{
		Title: title,
		Context: fmt.Sprintf("This %s daily challenge focuses on important NEET concepts. "+
			"Study this material thoroughly as it covers key topics that are frequently tested in the examination.", subject),
		Fallback: true,
	}
}
