package event

import (
	"context"
	"time"
)

// EventRepository defines read access to the raw event store.
type EventRepository interface {
	// ListByEmployeeAndWindow retrieves events for one employee inside the
	// half-open absolute-time interval [from, to), ordered by timestamp.
	ListByEmployeeAndWindow(ctx context.Context, employeeID string, from, to time.Time) ([]RawEvent, error)
}
