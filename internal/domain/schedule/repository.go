package schedule

import (
	"context"
	"time"
)

// ScheduleRepository defines read access to the schedule store.
type ScheduleRepository interface {
	// ListByEmployeeAndDate retrieves all entries for an employee on a
	// calendar date, shift and break entries alike, ordered by creation
	// so that "first wins" duplicate handling is deterministic.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]ScheduleEntry, error)

	// ListScheduledEmployeeIDs returns the employees holding at least one
	// confirmed non-break entry for the date. These are the batch targets.
	ListScheduledEmployeeIDs(ctx context.Context, date time.Time) ([]string, error)
}
