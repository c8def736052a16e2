package model

import (
	"time"

	"github.com/google/uuid"
)

// SystemUserID is the creator recorded for automatically generated daily tasks.
var SystemUserID = uuid.Nil

// DailyTask is a scheduled, subject-scoped generation context.
// At most one active task exists per (date, subject).
type DailyTask struct {
	ID               uuid.UUID `json:"id"`
	Title            string    `json:"title"`
	Date             time.Time `json:"date"`
	Subject          Subject   `json:"subject"`
	ContextText      string    `json:"context_text"`
	ContextEmbedding []float32 `json:"-"`
	IsActive         bool      `json:"is_active"`
	IsAIGenerated    bool      `json:"is_ai_generated"`
	CreatedBy        uuid.UUID `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ContextPreview returns the first 100 runes of the context.
func (t *DailyTask) ContextPreview() string {
	r := []rune(t.ContextText)
	if len(r) <= 100 {
		return t.ContextText
	}
	return string(r[:100]) + "..."
}

// DailyTaskSummary is the list view of a task.
type DailyTaskSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Date           string    `json:"date"`
	Subject        Subject   `json:"subject"`
	ContextPreview string    `json:"context_preview"`
	IsActive       bool      `json:"is_active"`
	IsAIGenerated  bool      `json:"is_ai_generated"`
	CreatedBy      uuid.UUID `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary builds the list view.
func (t *DailyTask) Summary() DailyTaskSummary {
	return DailyTaskSummary{
		ID:             t.ID,
		Title:          t.Title,
		Date:           t.Date.Format(DateLayout),
		Subject:        t.Subject,
		ContextPreview: t.ContextPreview(),
		IsActive:       t.IsActive,
		IsAIGenerated:  t.IsAIGenerated,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
	}
}

// DateLayout is the wire format of day-granular dates.
const DateLayout = "2006-01-02"

// DailyTaskFilter narrows the admin listing.
type DailyTaskFilter struct {
	Date    *time.Time
	Subject *Subject
	Limit   int
	Offset  int
}

// CreateDailyTaskRequest is the payload for manually authoring a daily task.
type CreateDailyTaskRequest struct {
	Title         string `json:"title" binding:"required,min=3,max=255"`
	Date          string `json:"date" binding:"required,day"`
	Subject       string `json:"subject" binding:"required,subject"`
	ContextText   string `json:"context_text" binding:"required,min=20"`
	IsAIGenerated bool   `json:"is_ai_generated"`
}

// GenerateDailyTaskRequest asks the generative engine to author a task.
type GenerateDailyTaskRequest struct {
	Date    string `json:"date" binding:"required,day"`
	Subject string `json:"subject" binding:"required,subject"`
}

// UpdateDailyTaskRequest holds the administratively editable fields.
type UpdateDailyTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=3,max=255"`
	ContextText *string `json:"context_text" binding:"omitempty,min=20"`
	IsActive    *bool   `json:"is_active"`
}
