package preformatted

import "fmt"

// Kind classifies a parse failure.
type Kind string

const (
	// KindNoValidQuestions means no block produced a usable question.
	// The user should reformat the input.
	KindNoValidQuestions Kind = "no_valid_questions"

	// KindInternal means the parser itself failed unexpectedly.
	KindInternal Kind = "internal_error"
)

// ParseError is returned by Parse for every failure.
type ParseError struct {
	Kind Kind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse preformatted quiz: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("parse preformatted quiz: %s", e.Kind)
}

func (e *ParseError) Unwrap() error { return e.Err }
