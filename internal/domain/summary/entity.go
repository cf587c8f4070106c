package summary

import "time"

// AdherenceSummary is the per-employee-per-day computation result. Exactly
// one row exists per (EmployeeID, ScheduleDate); recomputation overwrites
// in place and refreshes CalculatedAt.
type AdherenceSummary struct {
	ID           string
	EmployeeID   string
	ScheduleDate time.Time

	ScheduledStart           *time.Time
	ScheduledEnd             *time.Time
	ScheduledDurationMinutes int

	ActualStart           *time.Time
	ActualEnd             *time.Time
	ActualDurationMinutes int

	StartVarianceMinutes int
	EndVarianceMinutes   int

	BreakCompliancePercentage float64
	MissedBreaksCount         int
	ExtendedBreaksCount       int

	ProductiveTimeMinutes int
	IdleTimeMinutes       int
	AwayTimeMinutes       int
	NonWorkAppTimeMinutes int

	AdherencePercentage float64

	ScheduledBreaks      []BreakWindowDetail
	ActualBreaks         []BreakIntervalDetail
	ExceptionAdjustments []ExceptionAdjustmentDetail

	CalculatedAt time.Time
}

// BreakWindowDetail is the audit record for one scheduled break window.
type BreakWindowDetail struct {
	Start                  time.Time `json:"start"`
	End                    time.Time `json:"end"`
	PlannedDurationMinutes int       `json:"planned_duration_minutes"`
	Matched                bool      `json:"matched"`
	Extended               bool      `json:"extended"`
}

// BreakIntervalDetail is the audit record for one observed break interval.
type BreakIntervalDetail struct {
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	DurationMinutes int       `json:"duration_minutes"`
}

// ExceptionAdjustmentDetail records one approved exception applied to the day.
type ExceptionAdjustmentDetail struct {
	ExceptionID string    `json:"exception_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Minutes     int       `json:"minutes"`
}
