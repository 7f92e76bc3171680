package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/abhisek/quizforge/internal/config"
	"github.com/abhisek/quizforge/internal/ingest"
	"github.com/abhisek/quizforge/internal/llm"
	"github.com/abhisek/quizforge/internal/logger"
	"github.com/abhisek/quizforge/internal/quizgen"
	"github.com/abhisek/quizforge/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizforge",
	Short: "Turn study text into multiple-choice quizzes",
	Long: "quizforge parses numbered questions with lettered options, or asks an AI " +
		"provider to write a quiz from free-form study text, and stores the results.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZFORGE_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config (if set) and the environment.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then database.path from config or QUIZFORGE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.Path != "" {
		return cfg.Database.Path, store.EnsureDir(cfg.Database.Path)
	}
	return store.DefaultDBPath()
}

// openStore loads config and opens the database it names.
func openStore(cmd *cobra.Command) (*store.Store, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}

// newLogger builds the logger for a command. Commands other than serve log
// warnings and above unless a level is configured.
func newLogger(cfg config.Config, quiet bool) (*logger.Logger, error) {
	level := cfg.Log.Level
	if level == "" && quiet {
		level = "warn"
	}
	return logger.New(cfg.Log.Mode, level)
}

// newProcessor wires the ingestion pipeline. Without a provider key the AI
// path stays unconfigured and only preformatted input succeeds.
func newProcessor(ctx context.Context, cfg config.Config, events store.EventRepo, log *logger.Logger, tracer trace.Tracer) (*ingest.Processor, error) {
	var gen *quizgen.Generator
	if cfg.LLM.HasKey() {
		if err := cfg.LLM.Validate(); err != nil {
			return nil, err
		}
		provider, err := llm.NewProvider(ctx, cfg.LLM.Config, events, log)
		if err != nil {
			return nil, err
		}
		gen = quizgen.New(provider, quizgen.Config{QuestionCount: cfg.LLM.QuestionCount})
		log.Debug("AI quiz generation enabled", "provider", cfg.LLM.Provider, "model", gen.ModelID())
	} else {
		log.Warn("no LLM API key found; AI quiz generation is unavailable",
			"provider", cfg.LLM.Provider)
	}
	return ingest.NewProcessor(gen, log, tracer), nil
}
