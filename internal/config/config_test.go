package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
		"QUIZFORGE_LLM_PROVIDER", "QUIZFORGE_GEMINI_API_KEY", "QUIZFORGE_OPENAI_API_KEY",
		"QUIZFORGE_ANTHROPIC_API_KEY", "QUIZFORGE_OPENROUTER_API_KEY",
		"QUIZFORGE_GEMINI_MODEL", "QUIZFORGE_OPENAI_MODEL", "QUIZFORGE_OPENAI_BASE_URL",
		"QUIZFORGE_ANTHROPIC_MODEL", "QUIZFORGE_OPENROUTER_MODEL",
		"QUIZFORGE_ADDR", "QUIZFORGE_CORS_ORIGINS", "QUIZFORGE_DB", "QUIZFORGE_LOG_MODE",
		"QUIZFORGE_LOG_LEVEL", "QUIZFORGE_TELEMETRY_ENABLED", "QUIZFORGE_LLM_TIMEOUT",
		"QUIZFORGE_QUESTION_COUNT",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quizforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "development", cfg.Log.Mode)
	assert.Equal(t, 5, cfg.LLM.QuestionCount)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.LLM.HasKey())
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  addr: 127.0.0.1:9000
  cors_origins: [https://example.edu]
database:
  path: /tmp/q.db
log:
  mode: production
  level: warn
telemetry:
  enabled: true
  sample_ratio: 0.25
llm:
  provider: openai
  timeout: 30s
  question_count: 8
  openai:
    model: gpt-4.1-mini
  retry:
    max_attempts: 3
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.edu"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes, "unset fields keep defaults")
	assert.Equal(t, "/tmp/q.db", cfg.Database.Path)
	assert.Equal(t, "production", cfg.Log.Mode)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 8, cfg.LLM.QuestionCount)
	assert.Equal(t, "gpt-4.1-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown key", "server:\n  port: 80\n"},
		{"api key in file", "llm:\n  openai:\n    api_key: sk-123\n"},
		{"two documents", "log:\n  mode: production\n---\nlog:\n  mode: development\n"},
		{"bad duration", "llm:\n  timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Parse([]byte(tt.body), &cfg))
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse(nil, &cfg))
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUIZFORGE_ADDR", ":9999")
	t.Setenv("QUIZFORGE_CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("QUIZFORGE_DB", "/data/quiz.db")
	t.Setenv("QUIZFORGE_TELEMETRY_ENABLED", "true")
	t.Setenv("QUIZFORGE_LLM_TIMEOUT", "5s")
	t.Setenv("QUIZFORGE_QUESTION_COUNT", "10")
	t.Setenv("QUIZFORGE_LLM_PROVIDER", "anthropic")
	t.Setenv("QUIZFORGE_ANTHROPIC_API_KEY", "sk-ant")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/data/quiz.db", cfg.Database.Path)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 10, cfg.LLM.QuestionCount)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "sk-ant", cfg.LLM.Anthropic.APIKey)
}

func TestApplyEnv_DiscoversVendorKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg))
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g-key", cfg.LLM.Gemini.APIKey)
}

func TestApplyEnv_BadValues(t *testing.T) {
	for k, v := range map[string]string{
		"QUIZFORGE_TELEMETRY_ENABLED": "maybe",
		"QUIZFORGE_LLM_TIMEOUT":       "ten",
		"QUIZFORGE_QUESTION_COUNT":    "many",
	} {
		t.Run(k, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(k, v)
			cfg := Default()
			assert.ErrorContains(t, ApplyEnv(&cfg), k)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = " " }},
		{"zero body", func(c *Config) { c.Server.MaxBodyBytes = 0 }},
		{"log mode", func(c *Config) { c.Log.Mode = "verbose" }},
		{"sample ratio", func(c *Config) { c.Telemetry.SampleRatio = 1.5 }},
		{"question count", func(c *Config) { c.LLM.QuestionCount = 0 }},
		{"provider", func(c *Config) { c.LLM.Provider = "llama" }},
		{"timeout", func(c *Config) { c.LLM.Timeout = -time.Second }},
	}
	require.NoError(t, Default().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
