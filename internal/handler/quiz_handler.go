package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/response"
)

// QuizHandler handles quiz creation, retrieval and retake endpoints.
type QuizHandler struct {
	media    ImageSpooler
	quizzes  QuizPipeline
	attempts Attempts
	maxBody  int64
	log      zerolog.Logger
}

// NewQuizHandler creates a new QuizHandler. maxBody caps a whole multipart
// request; zero disables the cap.
func NewQuizHandler(media ImageSpooler, quizzes QuizPipeline, attempts Attempts, maxBody int64, log zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		media:    media,
		quizzes:  quizzes,
		attempts: attempts,
		maxBody:  maxBody,
		log:      log.With().Str("component", "quiz_handler").Logger(),
	}
}

type createdQuiz struct {
	Quiz       model.QuizPayload       `json:"quiz"`
	BatchID    string                  `json:"batch_id"`
	Extraction *model.ExtractionResult `json:"extraction"`
	Outcome    string                  `json:"generation"`
}

// CreateFromImages godoc
// POST /api/v1/quizzes/from-images
// Extracts text from an uploaded image batch and generates a quiz from it.
func (h *QuizHandler) CreateFromImages(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if h.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	}
	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer form.RemoveAll()

	batchID := c.PostForm("batch_id")
	if batchID == "" {
		batchID = uuid.NewString()
	} else if _, err := uuid.Parse(batchID); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"batch_id": "batch_id must be a UUID"})
		return
	}

	images, err := h.media.SpoolBatch(form.File["images"])
	if err != nil {
		failService(c, h.log, err)
		return
	}

	res, err := h.quizzes.CreateFromImages(c.Request.Context(), userID, batchID, images)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, createdQuiz{
		Quiz:       res.Quiz.Payload(),
		BatchID:    batchID,
		Extraction: res.Extraction,
		Outcome:    string(res.Outcome),
	})
}

// GetQuiz godoc
// GET /api/v1/quizzes/:id
// Returns the quiz without its answer key.
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	payload, err := h.quizzes.GetPayload(c.Request.Context(), quizID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"quiz": payload})
}

// Retake godoc
// POST /api/v1/quizzes/:id/retake
// Generates a fresh quiz from the same context, linked to the original.
func (h *QuizHandler) Retake(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	quizID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	quiz, err := h.quizzes.Retake(c.Request.Context(), userID, quizID)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz.Payload()})
}

// History godoc
// GET /api/v1/quizzes/history?type=all|daily|regular
func (h *QuizHandler) History(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	kind := model.HistoryType(c.DefaultQuery("type", string(model.HistoryAll)))
	switch kind {
	case model.HistoryAll, model.HistoryDaily, model.HistoryRegular:
	default:
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"type": "type must be one of all, daily, regular"})
		return
	}

	page, perPage := pageParams(c)
	entries, pagination, err := h.attempts.History(c.Request.Context(), userID, kind, page, perPage)
	if err != nil {
		failService(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"attempts": entries}, pagination)
}
