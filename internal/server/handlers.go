package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/abhisek/quizforge/internal/ingest"
	"github.com/abhisek/quizforge/internal/logger"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type QuizHandler struct {
	log     *logger.Logger
	proc    *ingest.Processor
	quizzes store.QuizRepo
}

func NewQuizHandler(log *logger.Logger, proc *ingest.Processor, quizzes store.QuizRepo) *QuizHandler {
	return &QuizHandler{
		log:     log.With("handler", "QuizHandler"),
		proc:    proc,
		quizzes: quizzes,
	}
}

type createQuizRequest struct {
	Title          string `json:"title" binding:"required,min=5,max=100"`
	Content        string `json:"content" binding:"required,min=20"`
	IsPreformatted bool   `json:"is_preformatted"`
}

type previewRequest struct {
	Content        string `json:"content" binding:"required,min=20"`
	IsPreformatted bool   `json:"is_preformatted"`
}

type quizResponse struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title,omitempty"`
	Mode      string    `json:"mode"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	quiz.Wire
}

type quizSummaryResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Mode      string    `json:"mode"`
	Questions int       `json:"questions"`
	CreatedAt time.Time `json:"created_at"`
}

// POST /api/quizzes
// Ingest the submitted text and save the resulting quiz.
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindFailure(err)
		respondError(c, status, "invalid_request", msg)
		return
	}

	ireq := ingest.Request{
		Text:         req.Content,
		Preformatted: req.IsPreformatted,
		RequestID:    requestID(c),
	}
	z, err := h.proc.Process(c.Request.Context(), ireq)
	if err != nil {
		status, code, msg := ingestFailure(err)
		respondError(c, status, code, msg)
		return
	}

	rec, err := h.quizzes.Create(c.Request.Context(), store.NewQuiz{
		Title: strings.TrimSpace(req.Title),
		Mode:  ireq.Mode(),
		Quiz:  z,
	})
	if err != nil {
		h.log.Error("save quiz failed", "request_id", ireq.RequestID, "error", err)
		respondError(c, http.StatusInternalServerError, "internal_error", msgGeneric)
		return
	}

	h.log.Info("quiz created", "request_id", ireq.RequestID, "quiz_id", rec.ID, "questions", rec.QuestionCount)
	c.JSON(http.StatusCreated, recordResponse(rec))
}

// POST /api/quizzes/preview
// Ingest the submitted text without saving it.
func (h *QuizHandler) PreviewQuiz(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status, msg := bindFailure(err)
		respondError(c, status, "invalid_request", msg)
		return
	}

	ireq := ingest.Request{Text: req.Content, Preformatted: req.IsPreformatted, RequestID: requestID(c)}
	z, err := h.proc.Process(c.Request.Context(), ireq)
	if err != nil {
		status, code, msg := ingestFailure(err)
		respondError(c, status, code, msg)
		return
	}
	c.JSON(http.StatusOK, quizResponse{Mode: ireq.Mode(), Wire: z.ToWire()})
}

// GET /api/quizzes?limit=N
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			respondError(c, http.StatusBadRequest, "invalid_request", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	summaries, err := h.quizzes.List(c.Request.Context(), store.QueryOpts{Limit: limit})
	if err != nil {
		h.log.Error("list quizzes failed", "error", err)
		respondError(c, http.StatusInternalServerError, "internal_error", msgGeneric)
		return
	}

	out := make([]quizSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, quizSummaryResponse{
			ID:        s.ID,
			Title:     s.Title,
			Mode:      s.Mode,
			Questions: s.QuestionCount,
			CreatedAt: s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": out})
}

// GET /api/quizzes/:id
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	rec, err := h.quizzes.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondError(c, http.StatusNotFound, "not_found", "quiz not found")
		return
	}
	if err != nil {
		h.log.Error("get quiz failed", "quiz_id", c.Param("id"), "error", err)
		respondError(c, http.StatusInternalServerError, "internal_error", msgGeneric)
		return
	}
	c.JSON(http.StatusOK, recordResponse(rec))
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func recordResponse(rec *store.QuizRecord) quizResponse {
	return quizResponse{
		ID:        rec.ID,
		Title:     rec.Title,
		Mode:      rec.Mode,
		CreatedAt: rec.CreatedAt,
		Wire:      rec.Quiz.ToWire(),
	}
}

// bindFailure turns a binding error into a status and a message naming
// the offending field.
func bindFailure(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, "request body too large"
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch verrs[0].Field() {
		case "Title":
			return http.StatusBadRequest, "title must be between 5 and 100 characters"
		case "Content":
			return http.StatusBadRequest, "content must be at least 20 characters"
		}
	}
	return http.StatusBadRequest, "request body must be a JSON object with title, content and is_preformatted"
}
