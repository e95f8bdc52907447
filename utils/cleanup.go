package utils

import (
	"context"
	"fmt"
	"time"

	"doctor-survey-targeting/config"
	"doctor-survey-targeting/predictions/repositories"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Retry configuration
const maxRetries = 3

var retryDelay = 2 * time.Second

// SweepExpiredViewStates removes page views idle for longer than ttl.
func SweepExpiredViewStates(ctx context.Context, repo repositories.ViewStateRepository, ttl time.Duration, now time.Time) (int, error) {
	removed, err := repo.Sweep(ctx, now.Add(-ttl))
	if err != nil {
		return 0, fmt.Errorf("sweep view states: %w", err)
	}
	return removed, nil
}

// RunScheduledCleanup sweeps expired view state on schedule (standard 5-field
// cron syntax) until the returned scheduler is stopped.
func RunScheduledCleanup(schedule string, repo repositories.ViewStateRepository, ttl time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		for attempt := 1; attempt <= maxRetries; attempt++ {
			removed, err := SweepExpiredViewStates(context.Background(), repo, ttl, time.Now())
			if err == nil {
				if removed > 0 {
					config.Logger.Info("Expired view states removed", zap.Int("removed", removed))
				}
				return
			}
			config.Logger.Warn("View state cleanup failed", zap.Int("attempt", attempt), zap.Error(err))
			time.Sleep(retryDelay)
		}
		config.Logger.Error("View state cleanup failed after retries", zap.Int("retries", maxRetries))
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	c.Start()
	return c, nil
}
