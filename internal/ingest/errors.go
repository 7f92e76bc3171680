package ingest

import "fmt"

// Origin names the stage an ingestion failure came from.
type Origin string

const (
	OriginParse      Origin = "parse"
	OriginGeneration Origin = "generation"
)

// Error wraps a *preformatted.ParseError or a *quizgen.GenerationError
// without altering it, so errors.As reaches the lower failure.
type Error struct {
	Origin Origin
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest (%s): %v", e.Origin, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
