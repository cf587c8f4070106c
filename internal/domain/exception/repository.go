package exception

import (
	"context"
	"time"
)

// ExceptionRepository defines read access to the exception store.
type ExceptionRepository interface {
	// ListApprovedOverlapping retrieves APPROVED records whose window
	// overlaps the half-open interval [from, to).
	ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]ExceptionRecord, error)
}
