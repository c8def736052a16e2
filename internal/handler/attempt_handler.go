package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/response"
	"github.com/stemsi/neetquiz-backend/internal/validator"
)

// AttemptHandler handles answer submission and result endpoints.
type AttemptHandler struct {
	attempts Attempts
	log      zerolog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts Attempts, log zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		attempts: attempts,
		log:      log.With().Str("component", "attempt_handler").Logger(),
	}
}

// Submit godoc
// POST /api/v1/quizzes/:id/attempts
// Scores the submitted answers and stores the attempt.
func (h *AttemptHandler) Submit(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.SubmitAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	summary, err := h.attempts.Submit(c.Request.Context(), userID, quizID, req)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"attempt": summary})
}

// QuizResults godoc
// GET /api/v1/quizzes/:id/results
// Returns the caller's results for every attempt at a quiz.
func (h *AttemptHandler) QuizResults(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	results, err := h.attempts.QuizResults(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// AttemptResults godoc
// GET /api/v1/attempts/:id/results
func (h *AttemptHandler) AttemptResults(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	attemptID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	result, err := h.attempts.AttemptResults(c.Request.Context(), userID, attemptID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
