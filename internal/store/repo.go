package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/quizforge/internal/quiz"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // LLM events only; empty = all
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates usage per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)

	// LLMUsageByModel aggregates token counts per model, for cost estimates.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// Quiz modes record which ingestion path produced a quiz.
const (
	ModePreformatted = "preformatted"
	ModeGenerated    = "generated"
)

// NewQuiz is the input to QuizRepo.Create.
type NewQuiz struct {
	Title string
	Mode  string
	Quiz  *quiz.Quiz
}

// QuizSummary is a saved quiz without its questions.
type QuizSummary struct {
	ID            string
	Title         string
	Mode          string
	QuestionCount int
	CreatedAt     time.Time
}

// QuizRecord is a saved quiz with its questions.
type QuizRecord struct {
	QuizSummary
	Quiz *quiz.Quiz
}

// QuizRepo persists quizzes as quiz, question and option rows.
type QuizRepo interface {
	// Create saves the quiz and all its questions and options in one
	// transaction. Nothing is written if any row fails.
	Create(ctx context.Context, q NewQuiz) (*QuizRecord, error)

	// Get loads a quiz by its public ID or returns ErrNotFound.
	Get(ctx context.Context, id string) (*QuizRecord, error)

	// List returns saved quizzes newest first.
	List(ctx context.Context, opts QueryOpts) ([]QuizSummary, error)
}
