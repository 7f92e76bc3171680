package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/quiz"
)

const validQuiz = `{"questions":[
	{"question_text":"What gas do plants absorb?","options":["Oxygen","Carbon dioxide","Nitrogen","Helium"],"correct_answer":1},
	{"question_text":"Where does photosynthesis happen?","options":["Roots","Stem","Chloroplasts","Flowers"],"correct_answer":2}
]}`

const sourceText = "Photosynthesis converts light energy into chemical energy inside chloroplasts."

func generate(t *testing.T, responses ...llm.MockResponse) (*quiz.Quiz, *llm.MockProvider, error) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	z, err := New(mock, DefaultConfig()).Generate(context.Background(), sourceText)
	return z, mock, err
}

func requireKind(t *testing.T, err error, want Kind) *GenerationError {
	t.Helper()
	var ge *GenerationError
	require.True(t, errors.As(err, &ge), "expected *GenerationError, got %T (%v)", err, err)
	require.Equal(t, want, ge.Kind, "error: %v", err)
	return ge
}

func TestGenerate_Valid(t *testing.T) {
	z, _, err := generate(t, llm.MockText(validQuiz))
	require.NoError(t, err)
	require.Equal(t, 2, z.Len())
	assert.Equal(t, "What gas do plants absorb?", z.Questions[0].Text)
	assert.Equal(t, []string{"Oxygen", "Carbon dioxide", "Nitrogen", "Helium"}, z.Questions[0].Options)
	assert.Equal(t, 1, z.Questions[0].CorrectIndex)
	assert.Equal(t, 2, z.Questions[1].CorrectIndex)
}

func TestGenerate_FencedResponse(t *testing.T) {
	for _, fenced := range []string{
		"```json\n" + validQuiz + "\n```",
		"```\n" + validQuiz + "\n```",
		"  ```JSON\n" + validQuiz + "```  ",
	} {
		z, _, err := generate(t, llm.MockText(fenced))
		require.NoError(t, err, "input %q", fenced)
		assert.Equal(t, 2, z.Len())
	}
}

func TestGenerate_CorrectAnswerOutOfRange(t *testing.T) {
	bad := `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":4}]}`
	_, _, err := generate(t, llm.MockText(bad))
	ge := requireKind(t, err, KindSchemaViolation)
	assert.Equal(t, bad, ge.Payload)
}

func TestGenerate_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing questions", `{"quiz":[]}`},
		{"empty questions", `{"questions":[]}`},
		{"three options", `{"questions":[{"question_text":"Q?","options":["a","b","c"],"correct_answer":0}]}`},
		{"five options", `{"questions":[{"question_text":"Q?","options":["a","b","c","d","e"],"correct_answer":0}]}`},
		{"string index", `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":"1"}]}`},
		{"fractional index", `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":1.5}]}`},
		{"float-formatted index", `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":1.0}]}`},
		{"negative index", `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":-1}]}`},
		{"missing text", `{"questions":[{"options":["a","b","c","d"],"correct_answer":0}]}`},
		{"blank text", `{"questions":[{"question_text":"  ","options":["a","b","c","d"],"correct_answer":0}]}`},
		{"blank option", `{"questions":[{"question_text":"Q?","options":["a","","c","d"],"correct_answer":0}]}`},
		{"non-string option", `{"questions":[{"question_text":"Q?","options":["a",2,"c","d"],"correct_answer":0}]}`},
		{"top-level array", `[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":0}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := generate(t, llm.MockText(tt.body))
			requireKind(t, err, KindSchemaViolation)
		})
	}
}

func TestGenerate_IgnoresExtraKeys(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"question key", `{"questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":2,"explanation":"because"}]}`},
		{"top-level key", `{"title":"Plants","questions":[{"question_text":"Q?","options":["a","b","c","d"],"correct_answer":2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, _, err := generate(t, llm.MockText(tt.body))
			require.NoError(t, err)
			require.Equal(t, 1, z.Len())
			assert.Equal(t, 2, z.Questions[0].CorrectIndex)
		})
	}
}

func TestResponseSchema_KeepsProviderSchemaStrict(t *testing.T) {
	assert.Equal(t, false, QuizSchema.Definition["additionalProperties"])
	assert.NotContains(t, responseSchema.Definition, "additionalProperties")

	items := responseSchema.Definition["properties"].(map[string]any)["questions"].(map[string]any)["items"].(map[string]any)
	assert.NotContains(t, items, "additionalProperties")
	assert.Equal(t, []any{"question_text", "options", "correct_answer"}, items["required"])
}

func TestGenerate_OneBadQuestionRejectsBatch(t *testing.T) {
	body := `{"questions":[
		{"question_text":"Good?","options":["a","b","c","d"],"correct_answer":0},
		{"question_text":"Bad?","options":["a","b","c","d"],"correct_answer":9}
	]}`
	z, _, err := generate(t, llm.MockText(body))
	assert.Nil(t, z)
	requireKind(t, err, KindSchemaViolation)
}

func TestGenerate_InvalidJSON(t *testing.T) {
	for _, body := range []string{
		"Sure! Here is your quiz.",
		`{"questions": [`,
		"",
		"```json\nnot json\n```",
	} {
		_, _, err := generate(t, llm.MockText(body))
		requireKind(t, err, KindInvalidResponseFormat)
	}
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"unavailable", &llm.ErrProviderUnavailable{Err: errors.New("503")}, KindServiceError},
		{"rate limit", &llm.ErrRateLimit{Err: errors.New("429")}, KindServiceError},
		{"auth", &llm.ErrAuthentication{StatusCode: 401, Err: errors.New("bad key")}, KindServiceError},
		{"deadline", context.DeadlineExceeded, KindServiceError},
		{"no text", &llm.ErrInvalidResponse{Err: errors.New("no text")}, KindInvalidResponseFormat},
		{"truncated", &llm.ErrMaxTokensExceeded{Content: json.RawMessage(`{"questions":[`)}, KindInvalidResponseFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := generate(t, llm.MockResponse{Err: tt.err})
			requireKind(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err, "cause must stay reachable")
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(validQuiz), Delay: time.Second})
	gen := New(llm.WithTimeout(mock, 10*time.Millisecond), DefaultConfig())

	z, err := gen.Generate(context.Background(), sourceText)
	assert.Nil(t, z)
	requireKind(t, err, KindServiceError)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerate_NotConfigured(t *testing.T) {
	var gen *Generator
	_, err := gen.Generate(context.Background(), sourceText)
	requireKind(t, err, KindServiceError)
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = New(nil, Config{}).Generate(context.Background(), sourceText)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGenerate_Request(t *testing.T) {
	_, mock, err := generate(t, llm.MockText(validQuiz))
	require.NoError(t, err)

	req, ok := mock.LastCall()
	require.True(t, ok)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, sourceText, "source text is embedded verbatim")
	assert.Contains(t, req.Messages[0].Content, "5-question")
	assert.Contains(t, req.System, "no code fences")
	assert.Same(t, QuizSchema, req.Schema)
}

func TestGenerate_QuestionCountConfigurable(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz))
	_, err := New(mock, Config{QuestionCount: 3}).Generate(context.Background(), sourceText)
	require.NoError(t, err)

	req, _ := mock.LastCall()
	assert.True(t, strings.Contains(req.Messages[0].Content, "3-question"))
	assert.Equal(t, 2048, req.MaxTokens)
}

func TestGenerate_MaxTokensScaleWithQuestionCount(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validQuiz))
	_, err := New(mock, Config{QuestionCount: 50}).Generate(context.Background(), sourceText)
	require.NoError(t, err)

	req, _ := mock.LastCall()
	assert.Equal(t, 512+50*300, req.MaxTokens)

	mock = llm.NewMockProvider(llm.MockText(validQuiz))
	_, err = New(mock, Config{QuestionCount: 50, MaxTokens: 1000}).Generate(context.Background(), sourceText)
	require.NoError(t, err)
	req, _ = mock.LastCall()
	assert.Equal(t, 1000, req.MaxTokens, "explicit budget wins")
}

func TestGenerate_PurposeLabel(t *testing.T) {
	var seen string
	p := purposeSpy{inner: llm.NewMockProvider(llm.MockText(validQuiz)), seen: &seen}
	_, err := New(p, DefaultConfig()).Generate(context.Background(), sourceText)
	require.NoError(t, err)
	assert.Equal(t, Purpose, seen)
}

type purposeSpy struct {
	inner llm.Provider
	seen  *string
}

func (p purposeSpy) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	*p.seen = llm.PurposeFrom(ctx)
	return p.inner.Generate(ctx, req)
}

func (p purposeSpy) ModelID() string { return p.inner.ModelID() }
