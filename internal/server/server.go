// Package server exposes quiz ingestion over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/abhisek/quizforge/internal/config"
	"github.com/abhisek/quizforge/internal/ingest"
	"github.com/abhisek/quizforge/internal/logger"
	"github.com/abhisek/quizforge/internal/store"
)

const shutdownTimeout = 10 * time.Second

type RouterConfig struct {
	Server      config.ServerConfig
	ServiceName string
	Log         *logger.Logger
	Processor   *ingest.Processor
	Quizzes     store.QuizRepo
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "quizforge"
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(RequestID())
	router.Use(AccessLog(log))
	router.Use(CORS(cfg.Server.CORSOrigins))

	quizzes := NewQuizHandler(log, cfg.Processor, cfg.Quizzes)

	router.GET("/healthcheck", HealthCheck)
	api := router.Group("/api")
	api.Use(BodyLimit(cfg.Server.MaxBodyBytes))
	{
		api.POST("/quizzes", quizzes.CreateQuiz)
		api.POST("/quizzes/preview", quizzes.PreviewQuiz)
		api.GET("/quizzes", quizzes.ListQuizzes)
		api.GET("/quizzes/:id", quizzes.GetQuiz)
	}

	return router
}

// Run serves handler on cfg.Addr until ctx is done, then shuts down
// gracefully.
func Run(ctx context.Context, cfg config.ServerConfig, handler http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
