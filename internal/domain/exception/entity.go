package exception

import "time"

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// ExceptionRecord is an adjustment request covering a time window. Only
// APPROVED records participate in scoring.
type ExceptionRecord struct {
	ID               string
	EmployeeID       string
	StartTime        time.Time
	EndTime          time.Time
	Status           Status
	Reason           *string
	RequestedMinutes int
	ApprovedMinutes  *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AdjustmentMinutes returns the minutes this record contributes. The
// approved value takes precedence over the requested one.
func (e ExceptionRecord) AdjustmentMinutes() int {
	if e.ApprovedMinutes != nil {
		return *e.ApprovedMinutes
	}
	return e.RequestedMinutes
}
