// Package quiz defines the multiple-choice quiz model shared by both
// ingestion paths along with its JSON wire shape.
package quiz

import (
	"errors"
	"fmt"
)

const (
	// MinOptions is the fewest options a question may carry.
	MinOptions = 2

	// MaxOptions is the most options a question may carry.
	MaxOptions = 4
)

// Quiz is the canonical, validated in-memory quiz. It is produced once per
// ingestion request and has no identity until persisted.
type Quiz struct {
	Questions []Question
}

// Question is a single multiple-choice question.
type Question struct {
	// Text is the question prompt. Never empty.
	Text string

	// Options are the answer choices in display order (2-4 entries).
	Options []string

	// CorrectIndex is the 0-based index into Options of the correct answer.
	CorrectIndex int
}

// ErrEmptyQuiz is returned by Validate when a quiz has no questions.
var ErrEmptyQuiz = errors.New("quiz has no questions")

// Validate checks a single question against the canonical invariants.
func (q Question) Validate() error {
	if q.Text == "" {
		return fmt.Errorf("question text is empty")
	}
	if n := len(q.Options); n < MinOptions || n > MaxOptions {
		return fmt.Errorf("question has %d options, want %d-%d", n, MinOptions, MaxOptions)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return fmt.Errorf("correct index %d out of range [0, %d)", q.CorrectIndex, len(q.Options))
	}
	return nil
}

// Validate checks every question. The first failing question is reported
// with its 1-based position.
func (z *Quiz) Validate() error {
	if z == nil || len(z.Questions) == 0 {
		return ErrEmptyQuiz
	}
	for i, q := range z.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// Len returns the number of questions.
func (z *Quiz) Len() int {
	if z == nil {
		return 0
	}
	return len(z.Questions)
}
