package worker

// retry_cron.go
// Scheduled job that periodically moves due entries of the retry
// schedule back onto their queue. Skips the tick while the SMTP breaker is
// open so a downed relay is not hammered.

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"liquidaciontextil/internal/infra"
	"liquidaciontextil/internal/metrics"

	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 20
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	RDB     *redis.Client
	CB      *infra.CircuitBreaker
	Metrics *metrics.Recorder
	Now     func() time.Time
}

// StartRetryCron schedules processRetries every 30s on a gocron scheduler and
// shuts the scheduler down when ctx is cancelled. Ticks never overlap.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) error {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("retry_cron: scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(retryTickInterval),
		gocron.NewTask(func() {
			if _, err := processRetries(ctx, cfg); err != nil {
				log.Error().Err(err).Msg("retry_cron: tick failed")
			}
		}),
		gocron.WithName("retry-cron"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("retry_cron: job: %w", err)
	}

	s.Start()
	log.Info().Msg("retry_cron: started")
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.Error().Err(err).Msg("retry_cron: shutdown")
		}
		log.Info().Msg("retry_cron: shutting down")
	}()
	return nil
}

// processRetries requeues every due entry and returns how many were moved.
func processRetries(ctx context.Context, cfg RetryCronConfig) (int, error) {
	if cfg.CB != nil && cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return 0, nil
	}

	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	due, err := cfg.RDB.ZRangeByScore(ctx, RetrySchedule, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now().Unix(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, member := range due {
		// ZREM decides ownership when several instances tick at once.
		removed, err := cfg.RDB.ZRem(ctx, RetrySchedule, member).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue
		}

		var sj scheduledJob
		if err := json.Unmarshal([]byte(member), &sj); err != nil {
			log.Error().Err(err).Msg("retry_cron: invalid schedule entry dropped")
			continue
		}
		encoded, err := json.Marshal(sj.Job)
		if err != nil {
			return moved, err
		}
		if err := cfg.RDB.LPush(ctx, sj.Queue, encoded).Err(); err != nil {
			return moved, err
		}
		cfg.Metrics.RecordRequeue(sj.Queue)
		moved++
	}

	if moved > 0 {
		log.Info().Int("count", moved).Msg("retry_cron: jobs requeued")
	}
	return moved, nil
}
