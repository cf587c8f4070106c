package adherence

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/event"
)

// Timeline is the reconstructed shape of one employee's day: session
// boundaries plus the idle, break and away intervals derived from the raw
// event stream. Idle and break intervals may overlap each other; consumers
// resolve overlap through interval intersection.
type Timeline struct {
	ActualStart *time.Time
	WorkEnd     *time.Time

	IdlePeriods  []Interval
	BreakPeriods []Interval
	AwayPeriods  []Interval

	// ActivityEvents is the chronological sub-stream of activity-indicating
	// events, kept for productivity attribution.
	ActivityEvents []event.RawEvent
}

// ReconstructTimeline derives the day's timeline from events already
// restricted to one local calendar day. scheduledEnd, when present, is the
// scheduled shift end projected onto the day; it serves as the work-end
// fallback when no LOGOFF was captured.
func ReconstructTimeline(events []event.RawEvent, scheduledEnd *time.Time) Timeline {
	sorted := make([]event.RawEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var tl Timeline
	if len(sorted) == 0 {
		if scheduledEnd != nil {
			end := *scheduledEnd
			tl.WorkEnd = &end
		}
		return tl
	}

	tl.ActualStart = firstOfType(sorted, event.TypeLogin)
	if tl.ActualStart == nil {
		first := sorted[0].Timestamp
		tl.ActualStart = &first
	}

	tl.WorkEnd = lastOfType(sorted, event.TypeLogoff)
	if tl.WorkEnd == nil {
		if scheduledEnd != nil {
			end := *scheduledEnd
			tl.WorkEnd = &end
		} else {
			last := sorted[len(sorted)-1].Timestamp
			tl.WorkEnd = &last
		}
	}

	tl.IdlePeriods = pairIntervals(sorted, event.TypeIdleStart, event.TypeIdleEnd, tl.WorkEnd)
	tl.BreakPeriods = pairIntervals(sorted, event.TypeBreakStart, event.TypeBreakEnd, tl.WorkEnd)
	tl.AwayPeriods = pairIntervals(sorted, event.TypeLogoff, event.TypeLogin, nil)

	for _, ev := range sorted {
		if ev.Type.IsActivity() {
			tl.ActivityEvents = append(tl.ActivityEvents, ev)
		}
	}

	return tl
}

func firstOfType(events []event.RawEvent, t event.EventType) *time.Time {
	for _, ev := range events {
		if ev.Type == t {
			ts := ev.Timestamp
			return &ts
		}
	}
	return nil
}

func lastOfType(events []event.RawEvent, t event.EventType) *time.Time {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == t {
			ts := events[i].Timestamp
			return &ts
		}
	}
	return nil
}

// pairIntervals pairs each startType event with the next endType event.
// An end with no preceding start is discarded. A trailing unmatched start
// is closed at closeAt when provided, otherwise dropped.
func pairIntervals(events []event.RawEvent, startType, endType event.EventType, closeAt *time.Time) []Interval {
	var intervals []Interval
	var pending *time.Time

	for _, ev := range events {
		switch ev.Type {
		case startType:
			if pending == nil {
				ts := ev.Timestamp
				pending = &ts
			}
		case endType:
			if pending != nil {
				if ev.Timestamp.After(*pending) {
					intervals = append(intervals, Interval{Start: *pending, End: ev.Timestamp})
				}
				pending = nil
			}
		}
	}

	if pending != nil && closeAt != nil && closeAt.After(*pending) {
		intervals = append(intervals, Interval{Start: *pending, End: *closeAt})
	}

	return intervals
}
