package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/response"
	"github.com/stemsi/neetquiz-backend/internal/validator"
)

// DailyTaskHandler handles daily challenge endpoints for students and admins.
type DailyTaskHandler struct {
	tasks    DailyTasks
	quizzes  QuizPipeline
	attempts Attempts
	log      zerolog.Logger
}

// NewDailyTaskHandler creates a new DailyTaskHandler.
func NewDailyTaskHandler(tasks DailyTasks, quizzes QuizPipeline, attempts Attempts, log zerolog.Logger) *DailyTaskHandler {
	return &DailyTaskHandler{
		tasks:    tasks,
		quizzes:  quizzes,
		attempts: attempts,
		log:      log.With().Str("component", "daily_task_handler").Logger(),
	}
}

// ─── Student ───────────────────────────────────────────────────────────

// Available godoc
// GET /api/v1/daily-challenges/available
// Lists today's active challenges the caller has not attempted.
func (h *DailyTaskHandler) Available(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.Available(c.Request.Context(), userID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"daily_tasks": tasks})
}

// Start godoc
// POST /api/v1/daily-challenges/:id/start
// Creates the caller's quiz for a daily challenge. Allowed once per user.
func (h *DailyTaskHandler) Start(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	taskID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizzes.StartDailyChallenge(c.Request.Context(), userID, taskID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz.Payload()})
}

// History godoc
// GET /api/v1/daily-challenges/history
func (h *DailyTaskHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, perPage := pageParams(c)
	entries, pagination, err := h.attempts.History(c.Request.Context(), userID, model.HistoryDaily, page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": entries}, pagination)
}

// ─── Admin ─────────────────────────────────────────────────────────────

// Create godoc
// POST /api/v1/admin/daily-tasks
func (h *DailyTaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.CreateDailyTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), userID, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"daily_task": task})
}

// Generate godoc
// POST /api/v1/admin/daily-tasks/generate
// Has the generative engine author a task for a date and subject.
func (h *DailyTaskHandler) Generate(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req model.GenerateDailyTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	task, err := h.tasks.Generate(c.Request.Context(), userID, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"daily_task": task})
}

// List godoc
// GET /api/v1/admin/daily-tasks?date=&subject=&page=&per_page=
func (h *DailyTaskHandler) List(c *gin.Context) {
	page, perPage := pageParams(c)

	tasks, pagination, err := h.tasks.List(c.Request.Context(), c.Query("date"), c.Query("subject"), page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"daily_tasks": tasks}, pagination)
}

// Get godoc
// GET /api/v1/admin/daily-tasks/:id
func (h *DailyTaskHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"daily_task": task})
}

// Update godoc
// PUT /api/v1/admin/daily-tasks/:id
func (h *DailyTaskHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdateDailyTaskRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), id, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"daily_task": task})
}

// Delete godoc
// DELETE /api/v1/admin/daily-tasks/:id
func (h *DailyTaskHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "daily task deleted"})
}
