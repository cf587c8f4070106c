package adherence

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BatchError records one employee whose pipeline failed.
type BatchError struct {
	EmployeeID string `json:"employee_id"`
	Message    string `json:"message"`
}

// BatchResult is returned to whatever scheduler or operator triggered the run.
type BatchResult struct {
	RunID          string       `json:"run_id"`
	Date           string       `json:"date"`
	ProcessedCount int          `json:"processed_count"`
	FailedCount    int          `json:"failed_count"`
	Errors         []BatchError `json:"errors"`
}

// RunDate computes adherence for every employee scheduled on the date.
// Employees are partitioned into fixed-size batches; pipelines inside a
// batch run concurrently, batches execute sequentially. A failure in one
// employee's pipeline is recorded and isolated: it aborts neither the batch
// nor later batches. Cancelling the context lets in-flight computations
// finish and persist; unstarted batches are skipped. A date with no
// scheduled employees returns schedule.ErrNoScheduleForDate.
func (e *Engine) RunDate(ctx context.Context, date time.Time) (BatchResult, error) {
	result := BatchResult{
		RunID:  uuid.NewString(),
		Date:   date.Format("2006-01-02"),
		Errors: []BatchError{},
	}

	employeeIDs, err := e.schedules.ListScheduledEmployeeIDs(ctx, date)
	if err != nil {
		return result, fmt.Errorf("list scheduled employees: %w", err)
	}
	if len(employeeIDs) == 0 {
		return result, schedule.ErrNoScheduleForDate
	}

	slog.Info("Adherence run started",
		"run_id", result.RunID,
		"date", result.Date,
		"employee_count", len(employeeIDs),
		"batch_size", e.batchSize)

	var mu sync.Mutex
	for offset := 0; offset < len(employeeIDs); offset += e.batchSize {
		if ctx.Err() != nil {
			slog.Warn("Adherence run cancelled, skipping remaining batches",
				"run_id", result.RunID, "remaining", len(employeeIDs)-offset)
			break
		}

		end := offset + e.batchSize
		if end > len(employeeIDs) {
			end = len(employeeIDs)
		}
		batch := employeeIDs[offset:end]

		g := new(errgroup.Group)
		for _, employeeID := range batch {
			employeeID := employeeID // shadow: preserve per-iteration capture under go < 1.22
			g.Go(func() error {
				if err := e.computeGuarded(ctx, employeeID, date); err != nil {
					slog.Error("Adherence computation failed",
						"run_id", result.RunID, "employee_id", employeeID, "error", err)
					mu.Lock()
					result.FailedCount++
					result.Errors = append(result.Errors, BatchError{
						EmployeeID: employeeID,
						Message:    err.Error(),
					})
					mu.Unlock()
					return nil
				}
				mu.Lock()
				result.ProcessedCount++
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()
	}

	slog.Info("Adherence run finished",
		"run_id", result.RunID,
		"processed", result.ProcessedCount,
		"failed", result.FailedCount)
	return result, nil
}

// computeGuarded converts a panic in one employee's pipeline into a
// recorded error so it cannot take down the batch.
func (e *Engine) computeGuarded(ctx context.Context, employeeID string, date time.Time) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in adherence pipeline: %v", p)
		}
	}()
	_, err = e.ComputeDay(ctx, employeeID, date)
	return err
}
