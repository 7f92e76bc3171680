package quizgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/quizforge/internal/quiz"
)

// Validator checks a generated question before it is accepted.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if the question passes.
	Validate(q quiz.Question) *ValidationError
}

// ValidationError describes why a question failed validation.
type ValidationError struct {
	Validator string
	Index     int // 0-based position of the question in the batch
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("question %d: validator %q: %s", e.Index+1, e.Validator, e.Message)
}

// StructuralValidator checks that the question has text and exactly four
// non-blank options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q quiz.Question) *ValidationError {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question_text is empty"}
	}
	if len(q.Options) != RequiredOptions {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", RequiredOptions, len(q.Options)),
		}
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("option %d is empty", i)}
		}
	}
	return nil
}

// AnswerRangeValidator checks that the correct answer indexes an option.
type AnswerRangeValidator struct{}

func (v *AnswerRangeValidator) Name() string { return "answer-range" }

func (v *AnswerRangeValidator) Validate(q quiz.Question) *ValidationError {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct_answer %d is outside [0, %d)", q.CorrectIndex, len(q.Options)),
		}
	}
	return nil
}
