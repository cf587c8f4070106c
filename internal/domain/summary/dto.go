package summary

import "time"

// ListFilter narrows and paginates summary listings.
type ListFilter struct {
	EmployeeID *string
	StartDate  *string
	EndDate    *string
	Page       int
	Limit      int
}

type SummaryResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	ScheduleDate string `json:"schedule_date"`

	ScheduledStart           *string `json:"scheduled_start"`
	ScheduledEnd             *string `json:"scheduled_end"`
	ScheduledDurationMinutes int     `json:"scheduled_duration_minutes"`

	ActualStart           *string `json:"actual_start"`
	ActualEnd             *string `json:"actual_end"`
	ActualDurationMinutes int     `json:"actual_duration_minutes"`

	StartVarianceMinutes int `json:"start_variance_minutes"`
	EndVarianceMinutes   int `json:"end_variance_minutes"`

	BreakCompliancePercentage float64 `json:"break_compliance_percentage"`
	MissedBreaksCount         int     `json:"missed_breaks_count"`
	ExtendedBreaksCount       int     `json:"extended_breaks_count"`

	ProductiveTimeMinutes int `json:"productive_time_minutes"`
	IdleTimeMinutes       int `json:"idle_time_minutes"`
	AwayTimeMinutes       int `json:"away_time_minutes"`
	NonWorkAppTimeMinutes int `json:"non_work_app_time_minutes"`

	AdherencePercentage float64 `json:"adherence_percentage"`

	ScheduledBreaks      []BreakWindowDetail         `json:"scheduled_breaks"`
	ActualBreaks         []BreakIntervalDetail       `json:"actual_breaks"`
	ExceptionAdjustments []ExceptionAdjustmentDetail `json:"exception_adjustments"`

	CalculatedAt string `json:"calculated_at"`
}

// timePtrToString safely converts a *time.Time to an RFC 3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

// ToResponse maps the entity to its API representation.
func (s AdherenceSummary) ToResponse() SummaryResponse {
	return SummaryResponse{
		ID:                        s.ID,
		EmployeeID:                s.EmployeeID,
		ScheduleDate:              s.ScheduleDate.Format("2006-01-02"),
		ScheduledStart:            timePtrToString(s.ScheduledStart),
		ScheduledEnd:              timePtrToString(s.ScheduledEnd),
		ScheduledDurationMinutes:  s.ScheduledDurationMinutes,
		ActualStart:               timePtrToString(s.ActualStart),
		ActualEnd:                 timePtrToString(s.ActualEnd),
		ActualDurationMinutes:     s.ActualDurationMinutes,
		StartVarianceMinutes:      s.StartVarianceMinutes,
		EndVarianceMinutes:        s.EndVarianceMinutes,
		BreakCompliancePercentage: s.BreakCompliancePercentage,
		MissedBreaksCount:         s.MissedBreaksCount,
		ExtendedBreaksCount:       s.ExtendedBreaksCount,
		ProductiveTimeMinutes:     s.ProductiveTimeMinutes,
		IdleTimeMinutes:           s.IdleTimeMinutes,
		AwayTimeMinutes:           s.AwayTimeMinutes,
		NonWorkAppTimeMinutes:     s.NonWorkAppTimeMinutes,
		AdherencePercentage:       s.AdherencePercentage,
		ScheduledBreaks:           s.ScheduledBreaks,
		ActualBreaks:              s.ActualBreaks,
		ExceptionAdjustments:      s.ExceptionAdjustments,
		CalculatedAt:              s.CalculatedAt.Format(time.RFC3339),
	}
}
