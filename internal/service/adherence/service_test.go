package adherence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/event"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/exception"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY COLLABORATOR STORES =====

type fakeEventRepo struct {
	events  map[string][]event.RawEvent
	failFor map[string]bool
}

func (f *fakeEventRepo) ListByEmployeeAndWindow(_ context.Context, employeeID string, from, to time.Time) ([]event.RawEvent, error) {
	if f.failFor[employeeID] {
		return nil, errors.New("event store unavailable")
	}
	var out []event.RawEvent
	for _, ev := range f.events[employeeID] {
		if !ev.Timestamp.Before(from) && ev.Timestamp.Before(to) {
			out = append(out, ev)
		}
	}
	return out, nil
}

type fakeScheduleRepo struct {
	entries map[string][]schedule.ScheduleEntry
}

func (f *fakeScheduleRepo) ListByEmployeeAndDate(_ context.Context, employeeID string, _ time.Time) ([]schedule.ScheduleEntry, error) {
	return f.entries[employeeID], nil
}

func (f *fakeScheduleRepo) ListScheduledEmployeeIDs(_ context.Context, _ time.Time) ([]string, error) {
	var ids []string
	for id, entries := range f.entries {
		for _, entry := range entries {
			if !entry.IsBreak && entry.IsConfirmed {
				ids = append(ids, id)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type fakeExceptionRepo struct {
	records map[string][]exception.ExceptionRecord
}

func (f *fakeExceptionRepo) ListApprovedOverlapping(_ context.Context, employeeID string, _, _ time.Time) ([]exception.ExceptionRecord, error) {
	return f.records[employeeID], nil
}

type fakeSummaryRepo struct {
	mu   sync.Mutex
	rows map[string]summary.AdherenceSummary
	seq  int
}

func summaryKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, s summary.AdherenceSummary) (summary.AdherenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[string]summary.AdherenceSummary)
	}
	key := summaryKey(s.EmployeeID, s.ScheduleDate)
	if existing, ok := f.rows[key]; ok {
		s.ID = existing.ID
	} else {
		f.seq++
		s.ID = fmt.Sprintf("sum-%d", f.seq)
	}
	f.rows[key] = s
	return s, nil
}

func (f *fakeSummaryRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (summary.AdherenceSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[summaryKey(employeeID, date)]
	if !ok {
		return summary.AdherenceSummary{}, summary.ErrSummaryNotFound
	}
	return s, nil
}

func (f *fakeSummaryRepo) List(_ context.Context, _ summary.ListFilter) ([]summary.AdherenceSummary, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []summary.AdherenceSummary
	for _, s := range f.rows {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// ===== HELPERS =====

var testDate = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func timeOfDay(hour, min int) *time.Time {
	t := time.Date(2000, 1, 1, hour, min, 0, 0, time.UTC)
	return &t
}

func shiftEntry(employeeID string, startHour, startMin, endHour, endMin int) schedule.ScheduleEntry {
	return schedule.ScheduleEntry{
		ID:           "sch-" + employeeID,
		EmployeeID:   employeeID,
		ScheduleDate: testDate,
		ShiftStart:   timeOfDay(startHour, startMin),
		ShiftEnd:     timeOfDay(endHour, endMin),
		IsConfirmed:  true,
	}
}

func breakEntry(employeeID string, hour, min, durationMinutes int) schedule.ScheduleEntry {
	return schedule.ScheduleEntry{
		ID:                   fmt.Sprintf("brk-%s-%02d%02d", employeeID, hour, min),
		EmployeeID:           employeeID,
		ScheduleDate:         testDate,
		IsBreak:              true,
		BreakStart:           timeOfDay(hour, min),
		BreakDurationMinutes: &durationMinutes,
		IsConfirmed:          true,
	}
}

func newTestEngine(events *fakeEventRepo, schedules *fakeScheduleRepo, exceptions *fakeExceptionRepo, summaries *fakeSummaryRepo, offsetMinutes int) *Engine {
	return NewEngine(events, schedules, exceptions, summaries, Options{
		UTCOffsetMinutes: offsetMinutes,
	})
}

// ===== PIPELINE TESTS =====

func TestComputeDay_EndToEnd(t *testing.T) {
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {
			evAt(9, 0, event.TypeLogin),
			evAt(13, 0, event.TypeIdleStart),
			evAt(13, 16, event.TypeIdleEnd),
			evAt(17, 5, event.TypeLogoff),
		},
	}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {
			shiftEntry("emp-01", 9, 0, 17, 0),
			breakEntry("emp-01", 13, 0, 15),
		},
	}}
	summaries := &fakeSummaryRepo{}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, summaries, 0)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, 0, s.StartVarianceMinutes)
	assert.Equal(t, 5, s.EndVarianceMinutes)
	assert.Equal(t, 480, s.ScheduledDurationMinutes)
	assert.Equal(t, 485, s.ActualDurationMinutes)

	// The 16-minute idle starting inside the 13:00-13:15 window satisfies
	// the break requirement.
	assert.Equal(t, 0, s.MissedBreaksCount)
	assert.Equal(t, 0, s.ExtendedBreaksCount)
	assert.Equal(t, float64(100), s.BreakCompliancePercentage)

	assert.Equal(t, 469, s.ProductiveTimeMinutes)
	assert.Equal(t, 16, s.IdleTimeMinutes)
	assert.Equal(t, 0, s.AwayTimeMinutes)
	assert.Equal(t, 0, s.NonWorkAppTimeMinutes)

	assert.Equal(t, 97.08, s.AdherencePercentage)
	require.Len(t, s.ScheduledBreaks, 1)
	assert.True(t, s.ScheduledBreaks[0].Matched)
}

func TestComputeDay_NoEventsIsValidOutcome(t *testing.T) {
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {shiftEntry("emp-01", 9, 0, 17, 0)},
	}}
	summaries := &fakeSummaryRepo{}
	engine := newTestEngine(&fakeEventRepo{}, schedules, &fakeExceptionRepo{}, summaries, 0)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err, "a day without events is a scheduled absence, not a failure")

	assert.Nil(t, s.ActualStart)
	assert.Nil(t, s.ActualEnd)
	assert.Equal(t, 0, s.ActualDurationMinutes)
	assert.Equal(t, 0, s.ProductiveTimeMinutes)
	assert.Equal(t, 0, s.IdleTimeMinutes)
	assert.Equal(t, 0, s.AwayTimeMinutes)
	assert.Equal(t, 0, s.StartVarianceMinutes)
	assert.Equal(t, 0, s.EndVarianceMinutes)
	assert.Equal(t, float64(100), s.BreakCompliancePercentage,
		"no scheduled breaks means full break compliance")

	_, err = summaries.GetByEmployeeAndDate(context.Background(), "emp-01", testDate)
	assert.NoError(t, err, "the zero summary is still persisted")
}

func TestComputeDay_MalformedScheduleDefaultsToZero(t *testing.T) {
	entry := shiftEntry("emp-01", 9, 0, 17, 0)
	entry.ShiftEnd = nil
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{"emp-01": {entry}}}
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {evAt(9, 0, event.TypeLogin), evAt(17, 0, event.TypeLogoff)},
	}}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, &fakeSummaryRepo{}, 0)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, 0, s.ScheduledDurationMinutes)
	assert.Equal(t, 0, s.EndVarianceMinutes)
	assert.Equal(t, 0, s.StartVarianceMinutes, "start side is intact")
}

func TestComputeDay_DuplicateShiftFirstWins(t *testing.T) {
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {
			shiftEntry("emp-01", 9, 0, 17, 0),
			shiftEntry("emp-01", 10, 0, 18, 0),
		},
	}}
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {evAt(9, 0, event.TypeLogin), evAt(17, 0, event.TypeLogoff)},
	}}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, &fakeSummaryRepo{}, 0)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, 0, s.StartVarianceMinutes, "first confirmed entry defines the shift")
	assert.Equal(t, 480, s.ScheduledDurationMinutes)
}

func TestComputeDay_ExceptionCredit(t *testing.T) {
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {
			evAt(9, 0, event.TypeLogin),
			evAt(10, 0, event.TypeIdleStart),
			evAt(11, 0, event.TypeIdleEnd),
			evAt(17, 0, event.TypeLogoff),
		},
	}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {shiftEntry("emp-01", 9, 0, 17, 0)},
	}}
	exceptions := &fakeExceptionRepo{records: map[string][]exception.ExceptionRecord{
		"emp-01": {{
			ID:               "exc-1",
			EmployeeID:       "emp-01",
			StartTime:        at(10, 0),
			EndTime:          at(10, 30),
			Status:           exception.StatusApproved,
			RequestedMinutes: 30,
		}},
	}}
	engine := newTestEngine(events, schedules, exceptions, &fakeSummaryRepo{}, 0)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, 30, s.IdleTimeMinutes, "60 idle minutes offset by the 30-minute exception")
	assert.Equal(t, 450, s.ProductiveTimeMinutes, "420 tracked plus 30 credited")
	require.Len(t, s.ExceptionAdjustments, 1)
	assert.Equal(t, "exc-1", s.ExceptionAdjustments[0].ExceptionID)
}

func TestComputeDay_ReportingOffsetFrame(t *testing.T) {
	// UTC+7 frame: a 09:00 local login is 02:00 UTC.
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {
			{EmployeeID: "emp-01", Timestamp: time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC), Type: event.TypeLogin},
			{EmployeeID: "emp-01", Timestamp: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), Type: event.TypeLogoff},
		},
	}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {shiftEntry("emp-01", 9, 0, 17, 0)},
	}}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, &fakeSummaryRepo{}, 7*60)

	s, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, 0, s.StartVarianceMinutes)
	assert.Equal(t, 0, s.EndVarianceMinutes)
	assert.Equal(t, 480, s.ActualDurationMinutes)
}

func TestComputeDay_Idempotent(t *testing.T) {
	events := &fakeEventRepo{events: map[string][]event.RawEvent{
		"emp-01": {
			evAt(9, 2, event.TypeLogin),
			evAt(17, 0, event.TypeLogoff),
		},
	}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{
		"emp-01": {shiftEntry("emp-01", 9, 0, 17, 0), breakEntry("emp-01", 12, 0, 30)},
	}}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, &fakeSummaryRepo{}, 0)

	first, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)
	second, err := engine.ComputeDay(context.Background(), "emp-01", testDate)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "recompute overwrites in place")
	first.CalculatedAt = second.CalculatedAt
	assert.Equal(t, first, second, "all fields except calculated_at are identical")
}

// ===== BATCH TESTS =====

func TestRunDate_PartialFailureIsolation(t *testing.T) {
	events := &fakeEventRepo{
		events:  map[string][]event.RawEvent{},
		failFor: map[string]bool{"emp-04": true},
	}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{}}
	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("emp-%02d", i)
		schedules.entries[id] = []schedule.ScheduleEntry{shiftEntry(id, 9, 0, 17, 0)}
		events.events[id] = []event.RawEvent{
			{EmployeeID: id, Timestamp: at(9, 0), Type: event.TypeLogin},
			{EmployeeID: id, Timestamp: at(17, 0), Type: event.TypeLogoff},
		}
	}
	summaries := &fakeSummaryRepo{}
	engine := newTestEngine(events, schedules, &fakeExceptionRepo{}, summaries, 0)

	result, err := engine.RunDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 9, result.ProcessedCount)
	assert.Equal(t, 1, result.FailedCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "emp-04", result.Errors[0].EmployeeID)
	assert.NotEmpty(t, result.RunID)

	for i := 1; i <= 10; i++ {
		id := fmt.Sprintf("emp-%02d", i)
		_, err := summaries.GetByEmployeeAndDate(context.Background(), id, testDate)
		if id == "emp-04" {
			assert.ErrorIs(t, err, summary.ErrSummaryNotFound)
		} else {
			assert.NoError(t, err, "summary for %s must exist", id)
		}
	}
}

func TestRunDate_SmallBatchesCoverAllEmployees(t *testing.T) {
	events := &fakeEventRepo{events: map[string][]event.RawEvent{}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{}}
	for i := 1; i <= 7; i++ {
		id := fmt.Sprintf("emp-%02d", i)
		schedules.entries[id] = []schedule.ScheduleEntry{shiftEntry(id, 9, 0, 17, 0)}
		events.events[id] = []event.RawEvent{
			{EmployeeID: id, Timestamp: at(9, 0), Type: event.TypeLogin},
			{EmployeeID: id, Timestamp: at(17, 0), Type: event.TypeLogoff},
		}
	}
	summaries := &fakeSummaryRepo{}
	engine := NewEngine(events, schedules, &fakeExceptionRepo{}, summaries, Options{BatchSize: 3})

	result, err := engine.RunDate(context.Background(), testDate)
	require.NoError(t, err)

	assert.Equal(t, 7, result.ProcessedCount)
	assert.Equal(t, 0, result.FailedCount)
	all, total, err := summaries.List(context.Background(), summary.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, all, 7)
}

func TestRunDate_NoScheduledEmployees(t *testing.T) {
	engine := newTestEngine(&fakeEventRepo{}, &fakeScheduleRepo{}, &fakeExceptionRepo{}, &fakeSummaryRepo{}, 0)

	_, err := engine.RunDate(context.Background(), testDate)

	assert.ErrorIs(t, err, schedule.ErrNoScheduleForDate)
}

func TestRunDate_CancelledContextSkipsRemainingBatches(t *testing.T) {
	events := &fakeEventRepo{events: map[string][]event.RawEvent{}}
	schedules := &fakeScheduleRepo{entries: map[string][]schedule.ScheduleEntry{}}
	for i := 1; i <= 4; i++ {
		id := fmt.Sprintf("emp-%02d", i)
		schedules.entries[id] = []schedule.ScheduleEntry{shiftEntry(id, 9, 0, 17, 0)}
	}
	engine := NewEngine(events, schedules, &fakeExceptionRepo{}, &fakeSummaryRepo{}, Options{BatchSize: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.RunDate(ctx, testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ProcessedCount, "no batch starts after cancellation")
}
