// Package quizgen turns free-form study text into a quiz by prompting an
// LLM provider and validating what comes back.
package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/quiz"
)

// Purpose labels generator calls in the LLM event log.
const Purpose = "quiz-gen"

// Generator produces quizzes using an LLM provider.
type Generator struct {
	provider llm.Provider
	config   Config
}

// New creates a Generator. Zero config fields fall back to DefaultConfig.
func New(provider llm.Provider, cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.QuestionCount <= 0 {
		cfg.QuestionCount = def.QuestionCount
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = MaxTokensFor(cfg.QuestionCount)
	}
	if cfg.Validators == nil {
		cfg.Validators = def.Validators
	}
	return &Generator{provider: provider, config: cfg}
}

// ModelID reports the provider model, or "" when unconfigured.
func (g *Generator) ModelID() string {
	if g == nil || g.provider == nil {
		return ""
	}
	return g.provider.ModelID()
}

// Generate asks the provider for a quiz about sourceText. The result is
// either a fully validated quiz or a *GenerationError; partial quizzes are
// never returned.
func (g *Generator) Generate(ctx context.Context, sourceText string) (*quiz.Quiz, error) {
	if g == nil || g.provider == nil {
		return nil, &GenerationError{Kind: KindServiceError, Err: ErrNotConfigured}
	}

	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(sourceText, g.config.QuestionCount)},
		},
		Schema:      QuizSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, classifyProviderError(err)
	}

	payload := StripCodeFences(string(resp.Content))

	if err := llm.ValidateResponse(responseSchema, json.RawMessage(payload)); err != nil {
		kind := KindSchemaViolation
		if errors.Is(err, llm.ErrMalformedJSON) {
			kind = KindInvalidResponseFormat
		}
		return nil, &GenerationError{Kind: kind, Payload: payload, Err: err}
	}

	var wire quiz.Wire
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		// The schema accepts 1.0 as an integer; encoding/json does not.
		return nil, &GenerationError{Kind: KindSchemaViolation, Payload: payload, Err: err}
	}

	z := &quiz.Quiz{Questions: make([]quiz.Question, 0, len(wire.Questions))}
	for i, wq := range wire.Questions {
		q := quiz.Question{
			Text:         wq.QuestionText,
			Options:      wq.Options,
			CorrectIndex: wq.CorrectAnswer,
		}
		for _, v := range g.config.Validators {
			if verr := v.Validate(q); verr != nil {
				verr.Index = i
				return nil, &GenerationError{Kind: KindSchemaViolation, Payload: payload, Err: verr}
			}
		}
		z.Questions = append(z.Questions, q)
	}

	if err := z.Validate(); err != nil {
		return nil, &GenerationError{Kind: KindSchemaViolation, Payload: payload, Err: err}
	}
	return z, nil
}

// classifyProviderError maps provider failures onto generation kinds.
// Output the provider could not hand over intact is a format problem;
// everything else is the service's fault.
func classifyProviderError(err error) error {
	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return &GenerationError{Kind: KindInvalidResponseFormat, Payload: string(inv.Content), Err: err}
	}
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return &GenerationError{Kind: KindInvalidResponseFormat, Payload: string(maxTok.Content), Err: err}
	}
	return &GenerationError{Kind: KindServiceError, Err: fmt.Errorf("AI service call failed: %w", err)}
}
