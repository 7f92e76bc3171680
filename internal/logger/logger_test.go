package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestRedactsSecretKeys(t *testing.T) {
	log, logs := observed()

	log.Info("provider configured",
		"provider", "gemini",
		"api_key", "AIza-secret",
		"Authorization", "Bearer abc",
	)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "gemini", fields["provider"])
	assert.Equal(t, "[REDACTED]", fields["api_key"])
	assert.Equal(t, "[REDACTED]", fields["Authorization"])
}

func TestRedactKeyMatching(t *testing.T) {
	tests := []struct {
		key    string
		redact bool
	}{
		{"token", true},
		{"access_token", true},
		{"github-token", true},
		{"x-api-key", true},
		{"client.secret", true},
		{"input_tokens", false},
		{"output_tokens", false},
		{"max_tokens", false},
		{"secretary", false},
		{"provider", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.redact, isRedactKey(tt.key))
		})
	}
}

func TestKeepsTokenCounts(t *testing.T) {
	log, logs := observed()

	log.Debug("llm request", "input_tokens", 120, "output_tokens", 45, "access_token", "abc")

	fields := logs.All()[0].ContextMap()
	assert.EqualValues(t, 120, fields["input_tokens"])
	assert.EqualValues(t, 45, fields["output_tokens"])
	assert.Equal(t, "[REDACTED]", fields["access_token"])
}

func TestRedactsNestedMaps(t *testing.T) {
	log, logs := observed()

	log.Debug("config", "llm", map[string]any{"model": "gemini-flash", "secret": "x"})

	fields := logs.All()[0].ContextMap()
	nested, ok := fields["llm"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "gemini-flash", nested["model"])
	assert.Equal(t, "[REDACTED]", nested["secret"])
}

func TestWithCarriesFields(t *testing.T) {
	log, logs := observed()

	log.With("request_id", "r-1").Warn("slow")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "r-1", logs.All()[0].ContextMap()["request_id"])
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("development", "loud")
	assert.Error(t, err)

	l, err := New("production", "warn")
	require.NoError(t, err)
	assert.NotNil(t, l)
}
