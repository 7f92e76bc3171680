package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/quizforge/internal/preformatted"
	"github.com/abhisek/quizforge/internal/quizgen"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{Message: msg, Code: code},
	})
}

// User-facing messages. Causes and payloads stay in the logs.
const (
	msgReformat     = "No valid questions were found. Number each question (1.) and letter each option (a) to d)), then resubmit."
	msgGeneric      = "Something went wrong while processing your quiz. Please try again."
	msgServiceError = "The AI service is unavailable right now. Please resubmit in a moment."
	msgUnusable     = "The AI produced unusable output. Please resubmit."
)

// ingestFailure maps an ingestion error to a status, code and message.
func ingestFailure(err error) (status int, code, msg string) {
	var pe *preformatted.ParseError
	if errors.As(err, &pe) {
		if pe.Kind == preformatted.KindNoValidQuestions {
			return http.StatusUnprocessableEntity, string(pe.Kind), msgReformat
		}
		return http.StatusInternalServerError, string(pe.Kind), msgGeneric
	}

	if kind, ok := quizgen.KindOf(err); ok {
		switch kind {
		case quizgen.KindServiceError:
			return http.StatusServiceUnavailable, string(kind), msgServiceError
		case quizgen.KindInvalidResponseFormat, quizgen.KindSchemaViolation:
			return http.StatusBadGateway, string(kind), msgUnusable
		}
	}

	return http.StatusInternalServerError, "internal_error", msgGeneric
}
