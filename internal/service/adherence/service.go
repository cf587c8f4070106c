package adherence

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/event"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/exception"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
)

// Options tunes the engine. The UTC offset defines the reporting frame: it
// bounds the calendar day and interprets stored schedule times of day.
type Options struct {
	UTCOffsetMinutes      int
	BatchSize             int
	BreakToleranceMinutes int
}

const (
	defaultBatchSize             = 50
	defaultBreakToleranceMinutes = 5
)

type Engine struct {
	events     event.EventRepository
	schedules  schedule.ScheduleRepository
	exceptions exception.ExceptionRepository
	summaries  summary.SummaryRepository

	loc            *time.Location
	batchSize      int
	breakTolerance int
}

func NewEngine(
	events event.EventRepository,
	schedules schedule.ScheduleRepository,
	exceptions exception.ExceptionRepository,
	summaries summary.SummaryRepository,
	opts Options,
) *Engine {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.BreakToleranceMinutes <= 0 {
		opts.BreakToleranceMinutes = defaultBreakToleranceMinutes
	}
	return &Engine{
		events:         events,
		schedules:      schedules,
		exceptions:     exceptions,
		summaries:      summaries,
		loc:            time.FixedZone("reporting", opts.UTCOffsetMinutes*60),
		batchSize:      opts.BatchSize,
		breakTolerance: opts.BreakToleranceMinutes,
	}
}

// Location exposes the reporting frame for callers that need to resolve
// "yesterday" the same way the engine does.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// ComputeDay runs the full pipeline for one employee and one calendar date
// and upserts the resulting summary. A day without events is a valid
// outcome (e.g. a scheduled absence) and produces an all-zero metric set
// rather than an error.
func (e *Engine) ComputeDay(ctx context.Context, employeeID string, date time.Time) (summary.AdherenceSummary, error) {
	dayStart, dayEnd := e.dayBounds(date)

	events, err := e.events.ListByEmployeeAndWindow(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("query events: %w", err)
	}
	entries, err := e.schedules.ListByEmployeeAndDate(ctx, employeeID, dayStart)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("query schedule: %w", err)
	}
	exceptionRecords, err := e.exceptions.ListApprovedOverlapping(ctx, employeeID, dayStart, dayEnd)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("query exceptions: %w", err)
	}

	scheduledStart, scheduledEnd, scheduledDuration := e.resolveShift(entries, dayStart)
	windows := e.resolveBreakWindows(entries, dayStart)

	tl := ReconstructTimeline(eventsWithinDay(events, dayStart, dayEnd), scheduledEnd)

	// Idle spans qualify as break candidates alongside explicit break spans:
	// agents frequently take scheduled breaks without flipping the on-device
	// break toggle, which the capture side records as idle.
	candidates := make([]Interval, 0, len(tl.BreakPeriods)+len(tl.IdlePeriods))
	candidates = append(candidates, tl.BreakPeriods...)
	candidates = append(candidates, tl.IdlePeriods...)
	breaks := MatchBreaks(windows, candidates, e.breakTolerance)

	productivity := EstimateProductivity(tl)
	adjusted, adjustments := ApplyExceptions(productivity, exceptionRecords)

	startVariance := varianceMinutes(tl.ActualStart, scheduledStart)
	var actualEnd *time.Time
	if len(events) > 0 {
		actualEnd = tl.WorkEnd
	}
	endVariance := varianceMinutes(actualEnd, scheduledEnd)

	actualDuration := 0
	if tl.ActualStart != nil && actualEnd != nil && actualEnd.After(*tl.ActualStart) {
		actualDuration = int(math.Round(actualEnd.Sub(*tl.ActualStart).Minutes()))
	}

	scores := ComputeScores(ScoreInput{
		StartVarianceMinutes:      startVariance,
		EndVarianceMinutes:        endVariance,
		BreakCompliancePercentage: breaks.CompliancePercentage,
		ProductiveTimeMinutes:     adjusted.ProductiveTimeMinutes,
		ScheduledDurationMinutes:  scheduledDuration,
	})

	s := summary.AdherenceSummary{
		EmployeeID:                employeeID,
		ScheduleDate:              dayStart,
		ScheduledStart:            scheduledStart,
		ScheduledEnd:              scheduledEnd,
		ScheduledDurationMinutes:  scheduledDuration,
		ActualStart:               tl.ActualStart,
		ActualEnd:                 actualEnd,
		ActualDurationMinutes:     actualDuration,
		StartVarianceMinutes:      startVariance,
		EndVarianceMinutes:        endVariance,
		BreakCompliancePercentage: breaks.CompliancePercentage,
		MissedBreaksCount:         breaks.MissedCount,
		ExtendedBreaksCount:       breaks.ExtendedCount,
		ProductiveTimeMinutes:     adjusted.ProductiveTimeMinutes,
		IdleTimeMinutes:           adjusted.IdleTimeMinutes,
		AwayTimeMinutes:           adjusted.AwayTimeMinutes,
		NonWorkAppTimeMinutes:     adjusted.NonWorkAppTimeMinutes,
		AdherencePercentage:       scores.AdherencePercentage,
		ScheduledBreaks:           breaks.Windows,
		ActualBreaks:              breaks.Intervals,
		ExceptionAdjustments:      adjustments,
		CalculatedAt:              time.Now().UTC(),
	}

	saved, err := e.summaries.Upsert(ctx, s)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("write summary: %w", err)
	}
	return saved, nil
}

// dayBounds returns the half-open [start, end) of the calendar day in the
// reporting frame. Only the Y/M/D fields of date are considered.
func (e *Engine) dayBounds(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, e.loc)
	return start, start.AddDate(0, 0, 1)
}

// resolveShift picks the first confirmed non-break entry (first wins on
// duplicates) and projects its times of day onto the reporting day. A
// malformed entry missing a start or end defaults the affected value to
// nil and the duration to 0.
func (e *Engine) resolveShift(entries []schedule.ScheduleEntry, dayStart time.Time) (*time.Time, *time.Time, int) {
	var shift *schedule.ScheduleEntry
	for i := range entries {
		if !entries[i].IsBreak && entries[i].IsConfirmed {
			shift = &entries[i]
			break
		}
	}
	if shift == nil {
		return nil, nil, 0
	}

	var start, end *time.Time
	if shift.ShiftStart != nil {
		t := e.projectTimeOfDay(*shift.ShiftStart, dayStart)
		start = &t
	}
	if shift.ShiftEnd != nil {
		t := e.projectTimeOfDay(*shift.ShiftEnd, dayStart)
		if start != nil && !t.After(*start) {
			// Overnight shift: the end time of day precedes the start.
			t = t.AddDate(0, 0, 1)
		}
		end = &t
	}

	duration := 0
	if start != nil && end != nil {
		duration = int(math.Round(end.Sub(*start).Minutes()))
	}
	return start, end, duration
}

// resolveBreakWindows projects confirmed break entries onto the day.
func (e *Engine) resolveBreakWindows(entries []schedule.ScheduleEntry, dayStart time.Time) []BreakWindow {
	var windows []BreakWindow
	for _, entry := range entries {
		if !entry.IsBreak || !entry.IsConfirmed {
			continue
		}
		if entry.BreakStart == nil || entry.BreakDurationMinutes == nil {
			continue
		}
		start := e.projectTimeOfDay(*entry.BreakStart, dayStart)
		windows = append(windows, BreakWindow{
			Start:          start,
			End:            start.Add(time.Duration(*entry.BreakDurationMinutes) * time.Minute),
			PlannedMinutes: *entry.BreakDurationMinutes,
		})
	}
	return windows
}

// projectTimeOfDay places a stored wall-clock time onto the reporting day.
// Stored schedule times are interpreted in the reporting frame, the single
// authoritative frame for all boundary arithmetic.
func (e *Engine) projectTimeOfDay(tod time.Time, dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, e.loc)
}

func varianceMinutes(actual, scheduled *time.Time) int {
	if actual == nil || scheduled == nil {
		return 0
	}
	return int(math.Round(actual.Sub(*scheduled).Minutes()))
}

func eventsWithinDay(events []event.RawEvent, dayStart, dayEnd time.Time) []event.RawEvent {
	filtered := make([]event.RawEvent, 0, len(events))
	for _, ev := range events {
		if ev.Timestamp.Before(dayStart) || !ev.Timestamp.Before(dayEnd) {
			continue
		}
		filtered = append(filtered, ev)
	}
	return filtered
}
