package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/database"
	"github.com/stemsi/neetquiz-backend/internal/generator"
	"github.com/stemsi/neetquiz-backend/internal/handler"
	"github.com/stemsi/neetquiz-backend/internal/logger"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/middleware"
	"github.com/stemsi/neetquiz-backend/internal/ocr"
	"github.com/stemsi/neetquiz-backend/internal/repository"
	"github.com/stemsi/neetquiz-backend/internal/router"
	"github.com/stemsi/neetquiz-backend/internal/service"
	"github.com/stemsi/neetquiz-backend/internal/storage"
	"github.com/stemsi/neetquiz-backend/internal/validator"
	"github.com/stemsi/neetquiz-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting NEET quiz backend")

	// ─── Initialize Validator & Metrics ────────────────────────────────
	validator.Setup()
	metrics.Init()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── External Engines ──────────────────────────────────────────────
	vision, err := ocr.NewVision(ctx, cfg.GoogleCredentialsFile, cfg.OCRTimeout, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Vision client")
	}
	defer vision.Close()

	gemini, err := generator.NewGemini(ctx, generator.Options{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		EmbedModel: cfg.GeminiEmbedModel,
		Timeout:    cfg.GenerationTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	defer gemini.Close()

	objects, err := storage.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store")
	}

	var classifier service.ImageClassifier = ocr.AlwaysCamera{}
	if cfg.DetectScreenshots {
		classifier = ocr.ExifClassifier{}
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	quizRepo := repository.NewQuizRepository(pool)
	dailyTaskRepo := repository.NewDailyTaskRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg.JWTSecret)
	progress := service.NewRedisProgress(rdb, log)
	mediaService := service.NewMediaService(cfg, log)
	extraction := service.NewExtractionService(classifier, objects, vision, vision, progress, cfg.ExtractionWorkers, log)
	synth := service.NewSynthesizer(gemini, gemini, log)
	store := service.NewQuizStore(questionRepo, quizRepo, rdb, cfg.QuizCacheTTL, log)
	quizService := service.NewQuizService(extraction, synth, store, quizRepo, dailyTaskRepo, progress, log)
	attemptService := service.NewAttemptService(store, attemptRepo, log)
	dailyTaskService := service.NewDailyTaskService(dailyTaskRepo, quizRepo, attemptRepo, synth, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	maxBody := cfg.MaxUploadBytes*int64(cfg.MaxImages) + 1<<20
	handlers := &router.Handlers{
		Quiz:      handler.NewQuizHandler(mediaService, quizService, attemptService, maxBody, log),
		Attempt:   handler.NewAttemptHandler(attemptService, log),
		DailyTask: handler.NewDailyTaskHandler(dailyTaskService, quizService, attemptService, log),
		WS:        handler.NewWSHandler(progress, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis":    database.RedisPing(rdb),
		}, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	if cfg.DailyWorkerEnabled {
		dailyWorker := worker.NewDailyChallengeWorker(dailyTaskService, worker.NewRedisLocker(rdb), cfg.DailyWorkerInterval, log)
		go dailyWorker.Start(workerCtx)
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	var limiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute, workerCtx.Done())
	}
	r := router.SetupRouter(authService, limiter, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// 1. Stop accepting new HTTP requests. Image batches can take a while
	// to finish generation.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout+5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
