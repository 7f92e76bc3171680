package quizgen

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind string

const (
	// KindServiceError means the AI service could not be reached or refused
	// the request (timeout, auth, rate limit, outage). Resubmitting may work.
	KindServiceError Kind = "service_error"

	// KindInvalidResponseFormat means the service answered with something
	// that is not a JSON document, even after fence stripping.
	KindInvalidResponseFormat Kind = "invalid_response_format"

	// KindSchemaViolation means the JSON parsed but does not describe a
	// usable quiz.
	KindSchemaViolation Kind = "schema_violation"
)

// ErrNotConfigured is the cause of a KindServiceError when no provider is
// available.
var ErrNotConfigured = errors.New("AI quiz generation is not configured")

// GenerationError is returned by Generate for every failure.
type GenerationError struct {
	Kind Kind

	// Payload is the model output that was rejected, for diagnostics.
	// Empty for service errors. Never shown to end users.
	Payload string

	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate quiz: %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf returns the Kind of err if it wraps a GenerationError.
func KindOf(err error) (Kind, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}
