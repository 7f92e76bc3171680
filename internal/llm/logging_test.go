package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/quizforge/internal/logger"
	"github.com/abhisek/quizforge/internal/store"
)

type recordingRepo struct {
	store.EventRepo // unused methods panic

	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, data)
	return r.err
}

func TestLoggingProvider_RecordsSuccess(t *testing.T) {
	repo := &recordingRepo{}
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{"questions":[]}`),
		Usage:   Usage{InputTokens: 12, OutputTokens: 34},
	})
	p := WithLogging(mock, "gemini", repo, nil)

	ctx := WithRequestID(WithPurpose(context.Background(), "quiz-gen"), "req-9")
	_, err := p.Generate(ctx, Request{
		System:   "be terse",
		Messages: []Message{{Role: RoleUser, Content: "source text"}},
		Schema:   &Schema{Name: "quiz", Definition: map[string]any{"type": "object"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	e := repo.events[0]
	if e.Purpose != "quiz-gen" || e.RequestID != "req-9" || !e.Success {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.Provider != "gemini" || e.Model != "mock" {
		t.Fatalf("expected provider gemini and model mock, got %q/%q", e.Provider, e.Model)
	}
	if e.InputTokens != 12 || e.OutputTokens != 34 {
		t.Fatalf("unexpected tokens: %d/%d", e.InputTokens, e.OutputTokens)
	}
	for _, want := range []string{"[system]", "be terse", "[user]", "source text", "[schema: quiz]"} {
		if !strings.Contains(e.RequestBody, want) {
			t.Errorf("request body missing %q:\n%s", want, e.RequestBody)
		}
	}
	if e.ResponseBody != `{"questions":[]}` {
		t.Fatalf("unexpected response body %q", e.ResponseBody)
	}
}

func TestLoggingProvider_RecordsFailure(t *testing.T) {
	repo := &recordingRepo{}
	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}})
	p := WithLogging(mock, "openai", repo, logger.FromZap(zap.New(core)))

	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	e := repo.events[0]
	if e.Success || !strings.Contains(e.ErrorMessage, "down") {
		t.Fatalf("unexpected event: %+v", e)
	}
	if logs.FilterMessage("llm request failed").Len() != 1 {
		t.Fatalf("expected a warning log, got %v", logs.All())
	}
}

func TestLoggingProvider_RepoFailureDoesNotFailRequest(t *testing.T) {
	repo := &recordingRepo{err: errors.New("disk full")}
	core, logs := observer.New(zap.DebugLevel)
	p := WithLogging(NewMockProvider(MockText(`{}`)), "mock", repo, logger.FromZap(zap.New(core)))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logs.FilterMessage("failed to record LLM request event").Len() != 1 {
		t.Fatal("expected a warning about the failed event write")
	}
}

func TestLoggingProvider_LogsTokenCounts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mock := NewMockProvider(MockResponse{
		Content: json.RawMessage(`{}`),
		Usage:   Usage{InputTokens: 120, OutputTokens: 45},
	})
	p := WithLogging(mock, "gemini", nil, logger.FromZap(zap.New(core)))

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterMessage("llm request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one debug line, got %v", logs.All())
	}
	fields := entries[0].ContextMap()
	if fields["input_tokens"] != int64(120) || fields["output_tokens"] != int64(45) {
		t.Fatalf("token counts not logged: %v", fields)
	}
	if fields["provider"] != "gemini" {
		t.Fatalf("expected provider field, got %v", fields["provider"])
	}
}
