// Package ingest routes instructor text to the preformatted parser or the
// AI generator and reports failures by origin.
package ingest

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/quizforge/internal/logger"
	"github.com/abhisek/quizforge/internal/preformatted"
	"github.com/abhisek/quizforge/internal/quiz"
	"github.com/abhisek/quizforge/internal/quizgen"
)

// maxLoggedPayload bounds how much rejected model output goes into a log line.
const maxLoggedPayload = 2048

// Request is one ingestion call.
type Request struct {
	Text         string
	Preformatted bool

	// RequestID correlates log lines and spans. Optional.
	RequestID string
}

// Mode reports which producer handles the request.
func (r Request) Mode() string {
	if r.Preformatted {
		return "preformatted"
	}
	return "generated"
}

// Processor dispatches requests. It holds no per-request state and is safe
// for concurrent use.
type Processor struct {
	gen    *quizgen.Generator
	log    *logger.Logger
	tracer trace.Tracer
}

// NewProcessor wires a processor. gen may be nil, in which case the AI path
// fails with quizgen.ErrNotConfigured. A nil log or tracer falls back to a
// no-op logger and the global tracer provider.
func NewProcessor(gen *quizgen.Generator, log *logger.Logger, tracer trace.Tracer) *Processor {
	if log == nil {
		log = logger.Nop()
	}
	if tracer == nil {
		tracer = otel.Tracer("github.com/abhisek/quizforge/internal/ingest")
	}
	return &Processor{gen: gen, log: log, tracer: tracer}
}

// Process turns req into a validated quiz. Every failure is an *Error.
func (p *Processor) Process(ctx context.Context, req Request) (*quiz.Quiz, error) {
	ctx, span := p.tracer.Start(ctx, "ingest.Process", trace.WithAttributes(
		attribute.String("ingest.mode", req.Mode()),
		attribute.Int("ingest.text_length", utf8.RuneCountInString(req.Text)),
		attribute.String("ingest.request_id", req.RequestID),
	))
	defer span.End()

	log := p.log.With("request_id", req.RequestID, "mode", req.Mode())

	var (
		z   *quiz.Quiz
		err error
	)
	if req.Preformatted {
		z, err = preformatted.Parse(req.Text)
		if err != nil {
			err = &Error{Origin: OriginParse, Err: err}
		}
	} else {
		z, err = p.gen.Generate(ctx, req.Text)
		if err != nil {
			err = &Error{Origin: OriginGeneration, Err: err}
		}
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failureKind(err))
		logFailure(log, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("ingest.question_count", z.Len()))
	log.Debug("quiz ingested", "questions", z.Len())
	return z, nil
}

// failureKind returns the lower failure's kind label.
func failureKind(err error) string {
	var pe *preformatted.ParseError
	if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	if k, ok := quizgen.KindOf(err); ok {
		return string(k)
	}
	return "unknown"
}

func logFailure(log *logger.Logger, err error) {
	var pe *preformatted.ParseError
	if errors.As(err, &pe) {
		if pe.Kind == preformatted.KindNoValidQuestions {
			log.Info("no valid questions in preformatted input", "kind", pe.Kind)
			return
		}
		log.Error("preformatted parse failed", "kind", pe.Kind, "error", pe.Err)
		return
	}

	var ge *quizgen.GenerationError
	if errors.As(err, &ge) {
		if ge.Kind == quizgen.KindServiceError {
			log.Warn("AI service call failed", "kind", ge.Kind, "error", ge.Err)
			return
		}
		log.Warn("AI produced unusable output",
			"kind", ge.Kind,
			"error", ge.Err,
			"payload", truncate(ge.Payload, maxLoggedPayload),
		)
		return
	}

	log.Error("ingestion failed", "error", err)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "...(truncated)"
}
