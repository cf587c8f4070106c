package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/adherence-engine-go/internal/service/adherence"
)

// AdherenceJobs holds the recompute job for late-arriving events: the
// previous day is recomputed once per early-morning window, relying on the
// summary writer's idempotent upsert.
type AdherenceJobs struct {
	engine *adherence.Engine
}

func NewAdherenceJobs(engine *adherence.Engine) *AdherenceJobs {
	return &AdherenceJobs{engine: engine}
}

func (j *AdherenceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("recompute_previous_day", interval, j.RecomputePreviousDay)
}

func (j *AdherenceJobs) RecomputePreviousDay(ctx context.Context) error {
	// Only run during the 01:00-01:59 window in the reporting frame, once
	// the previous day is safely closed.
	nowLocal := time.Now().In(j.engine.Location())
	if nowLocal.Hour() != 1 {
		return nil
	}

	yesterday := nowLocal.AddDate(0, 0, -1)
	slog.Info("Cron: Recomputing previous day", "date", yesterday.Format("2006-01-02"))

	result, err := j.engine.RunDate(ctx, yesterday)
	if errors.Is(err, schedule.ErrNoScheduleForDate) {
		slog.Info("Cron: No employees scheduled for previous day", "date", yesterday.Format("2006-01-02"))
		return nil
	}
	if err != nil {
		return fmt.Errorf("recompute previous day: %w", err)
	}

	slog.Info("Cron: Previous day recomputed",
		"run_id", result.RunID,
		"processed", result.ProcessedCount,
		"failed", result.FailedCount)
	return nil
}
