package model

import "time"

// Subject is one of the three NEET subjects.
type Subject string

const (
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBiology   Subject = "biology"
)

// Subjects lists every subject in a stable order.
var Subjects = []Subject{SubjectPhysics, SubjectChemistry, SubjectBiology}

// Valid reports whether s is a known subject.
func (s Subject) Valid() bool {
	switch s {
	case SubjectPhysics, SubjectChemistry, SubjectBiology:
		return true
	}
	return false
}

// Difficulty grades a question or quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// TruncateToDay drops the time-of-day, normalizing to UTC midnight.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
