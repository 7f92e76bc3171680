package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizforge/internal/server"
	"github.com/abhisek/quizforge/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cfg, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if strings.HasPrefix(strings.ToLower(cfg.Log.Mode), "prod") {
			gin.SetMode(gin.ReleaseMode)
		}

		log, err := newLogger(cfg, false)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdown, err := telemetry.Setup(cfg.Telemetry, version, os.Stderr, log)
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn("telemetry shutdown failed", "error", err)
			}
		}()

		tracer := telemetry.Tracer(cfg.Telemetry, "github.com/abhisek/quizforge/internal/ingest")
		proc, err := newProcessor(ctx, cfg, st.EventRepo(), log, tracer)
		if err != nil {
			return fmt.Errorf("init LLM provider: %w", err)
		}

		router := server.NewRouter(server.RouterConfig{
			Server:      cfg.Server,
			ServiceName: cfg.Telemetry.ServiceName,
			Log:         log,
			Processor:   proc,
			Quizzes:     st.QuizRepo(),
		})
		return server.Run(ctx, cfg.Server, router, log)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
