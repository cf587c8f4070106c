package schedule

import "time"

// ScheduleEntry is one row of the schedule store: either a shift entry
// (ShiftStart/ShiftEnd carry the time of day) or a break window entry
// (BreakStart + BreakDurationMinutes). Only confirmed entries participate
// in adherence computation.
type ScheduleEntry struct {
	ID                   string
	EmployeeID           string
	ScheduleDate         time.Time
	IsBreak              bool
	ShiftStart           *time.Time
	ShiftEnd             *time.Time
	BreakStart           *time.Time
	BreakDurationMinutes *int
	IsConfirmed          bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
