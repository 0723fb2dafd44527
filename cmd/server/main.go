package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quizdeck/quizdeck-gateway/internal/attempt"
	"github.com/quizdeck/quizdeck-gateway/internal/config"
	"github.com/quizdeck/quizdeck-gateway/internal/database"
	"github.com/quizdeck/quizdeck-gateway/internal/gateway"
	"github.com/quizdeck/quizdeck-gateway/internal/handler"
	"github.com/quizdeck/quizdeck-gateway/internal/logger"
	"github.com/quizdeck/quizdeck-gateway/internal/router"
	"github.com/quizdeck/quizdeck-gateway/internal/session"
	"github.com/quizdeck/quizdeck-gateway/internal/state"
	"github.com/quizdeck/quizdeck-gateway/internal/validator"
	"github.com/quizdeck/quizdeck-gateway/internal/wizard"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("upstream", cfg.QuizServiceURL).
		Msg("Starting QuizDeck Gateway")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Session and Flow State Stores ─────────────────────────────────
	// Redis when configured, in-memory otherwise. The in-memory stores
	// only work for a single instance.
	var (
		sessions  session.Store
		flowState state.Store
	)
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()

		sessions = session.NewRedisStore(rdb, cfg.SessionTTL, log)
		flowState = state.NewRedisStore(rdb, cfg.SessionTTL)
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory stores")
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		flowState = state.NewMemoryStore(cfg.SessionTTL)
	}

	// ─── Upstream Gateway Client ───────────────────────────────────────
	gw := gateway.New(cfg.QuizServiceURL, cfg.UpstreamTimeout, log)

	// ─── Initialize Services ──────────────────────────────────────────
	attemptCtl := attempt.NewController(gw, flowState, log)
	wizardSvc := wizard.NewService(gw, flowState, cfg.RequireCorrectChoice, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(gw, sessions, cfg, log),
		Student:  handler.NewStudentHandler(gw, attemptCtl, log),
		Teacher:  handler.NewTeacherHandler(gw, log),
		Question: handler.NewQuestionHandler(gw, wizardSvc, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(sessions, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
