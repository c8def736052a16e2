// Command generate-daily creates the missing daily challenges for one date.
// It is meant for cron or manual backfills when the server worker is disabled.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/database"
	"github.com/stemsi/neetquiz-backend/internal/generator"
	"github.com/stemsi/neetquiz-backend/internal/logger"
	"github.com/stemsi/neetquiz-backend/internal/metrics"
	"github.com/stemsi/neetquiz-backend/internal/model"
	"github.com/stemsi/neetquiz-backend/internal/repository"
	"github.com/stemsi/neetquiz-backend/internal/service"
	"github.com/stemsi/neetquiz-backend/internal/worker"
)

func main() {
	var dateFlag string
	flag.StringVar(&dateFlag, "date", "", "Date to fill (YYYY-MM-DD); defaults to tomorrow")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	metrics.Init()

	date := model.TruncateToDay(time.Now()).AddDate(0, 0, 1)
	if dateFlag != "" {
		d, err := service.ParseDay(dateFlag)
		if err != nil {
			log.Fatal().Err(err).Str("date", dateFlag).Msg("Invalid date")
		}
		date = d
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

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

	tasks := service.NewDailyTaskService(
		repository.NewDailyTaskRepository(pool),
		repository.NewQuizRepository(pool),
		repository.NewAttemptRepository(pool),
		service.NewSynthesizer(gemini, gemini, log),
		log,
	)

	w := worker.NewDailyChallengeWorker(tasks, worker.NewRedisLocker(rdb), 0, log)
	created, err := w.RunOnce(ctx, date)
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Msg("Daily challenge generation incomplete")
	}

	log.Info().
		Str("date", date.Format(model.DateLayout)).
		Int("created", created).
		Msg("Daily challenge generation finished")
}
