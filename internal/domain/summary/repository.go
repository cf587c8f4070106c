package summary

import (
	"context"
	"time"
)

// SummaryRepository owns the adherence_summaries table.
type SummaryRepository interface {
	// Upsert writes the summary keyed by (EmployeeID, ScheduleDate):
	// insert on first computation, overwrite in place on recompute. The
	// write must be atomic so concurrent re-runs degrade to last-write-wins.
	Upsert(ctx context.Context, s AdherenceSummary) (AdherenceSummary, error)

	// GetByEmployeeAndDate retrieves one summary or ErrSummaryNotFound.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (AdherenceSummary, error)

	// List retrieves summaries with filters and pagination.
	List(ctx context.Context, filter ListFilter) ([]AdherenceSummary, int64, error)
}
