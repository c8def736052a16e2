package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/neetquiz-backend/internal/config"
	"github.com/stemsi/neetquiz-backend/internal/model"
)

const dailyLockTTL = 10 * time.Minute

// DayFiller creates the missing daily tasks of a date.
type DayFiller interface {
	EnsureDay(ctx context.Context, date time.Time) ([]model.DailyTask, error)
}

// DailyChallengeWorker makes sure tomorrow has a daily task for every subject.
// Replicas coordinate through a per-date lock; the unique index on
// (date, subject) backs it up.
type DailyChallengeWorker struct {
	filler   DayFiller
	locker   Locker
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewDailyChallengeWorker(filler DayFiller, locker Locker, interval time.Duration, log zerolog.Logger) *DailyChallengeWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DailyChallengeWorker{
		filler:   filler,
		locker:   locker,
		interval: interval,
		log:      log.With().Str("component", "daily_challenge_worker").Logger(),
		now:      time.Now,
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

// Start runs one pass immediately and then every interval until ctx is done.
func (w *DailyChallengeWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("DailyChallengeWorker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx, model.TruncateToDay(w.now()).AddDate(0, 0, 1)); err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Daily challenge pass failed")
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("DailyChallengeWorker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce fills date under the generation lock. It returns the number of tasks
// created; zero with a nil error means the slots were full or another replica
// holds the lock.
func (w *DailyChallengeWorker) RunOnce(ctx context.Context, date time.Time) (int, error) {
	day := date.Format(model.DateLayout)
	key := config.CacheKey.DailyGenerationLockKey(day)

	release, ok, err := w.locker.Acquire(ctx, key, dailyLockTTL)
	if err != nil {
		return 0, err
	}
	if !ok {
		w.log.Debug().Str("date", day).Msg("Generation lock held elsewhere")
		return 0, nil
	}
	defer release()

	created, err := w.filler.EnsureDay(ctx, date)
	if len(created) > 0 {
		w.log.Info().Str("date", day).Int("created", len(created)).Msg("Daily challenges generated")
	}
	return len(created), err
}
