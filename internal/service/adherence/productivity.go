package adherence

import (
	"math"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/event"
)

// ProductivityResult splits the available work window into attribution
// buckets, all in whole minutes.
type ProductivityResult struct {
	ProductiveTimeMinutes int
	IdleTimeMinutes       int
	AwayTimeMinutes       int
	NonWorkAppTimeMinutes int
	WorkAppTimeMinutes    int
}

// EstimateProductivity walks the activity event stream and attributes the
// time between consecutive events (plus the lead-in and lead-out spans) to
// a work-app or non-work-app bucket, subtracting the idle/break/away
// intervals that intersect each specific span. Any residual gap between the available
// window and the tracked spans is credited to work-app time: an agent whose
// single foreground application never triggered a change event was still
// working in it.
func EstimateProductivity(tl Timeline) ProductivityResult {
	var res ProductivityResult

	res.IdleTimeMinutes = int(math.Round(sumMinutes(tl.IdlePeriods)))
	res.AwayTimeMinutes = int(math.Round(sumMinutes(tl.AwayPeriods)))

	if tl.ActualStart == nil || tl.WorkEnd == nil {
		return res
	}
	workWindow := Interval{Start: *tl.ActualStart, End: *tl.WorkEnd}
	totalMinutes := workWindow.Minutes()
	if totalMinutes <= 0 {
		return res
	}

	exclusions := make([]Interval, 0, len(tl.IdlePeriods)+len(tl.BreakPeriods)+len(tl.AwayPeriods))
	exclusions = append(exclusions, tl.IdlePeriods...)
	exclusions = append(exclusions, tl.BreakPeriods...)
	exclusions = append(exclusions, tl.AwayPeriods...)

	excludedMinutes := sumMinutes(exclusions)
	availableMinutes := math.Max(0, totalMinutes-excludedMinutes)

	// Span boundaries: actual start, then each activity event inside the
	// window, then work end. The event opening a span determines its bucket;
	// the lead-in span has no opener and defaults to work.
	var workMinutes, nonWorkMinutes float64
	spanStart := *tl.ActualStart
	var opener *event.RawEvent

	flush := func(spanEnd Interval) {
		minutes := spanEnd.Minutes()
		for _, ex := range exclusions {
			minutes -= overlapMinutes(ex, spanEnd)
		}
		if minutes <= 0 {
			return
		}
		if opener != nil && opener.IsWorkApplication != nil && !*opener.IsWorkApplication {
			nonWorkMinutes += minutes
		} else {
			// Unknown classification counts as work: an agent logged in
			// with no classified foreground window is assumed to be doing
			// approved work.
			workMinutes += minutes
		}
	}

	for i := range tl.ActivityEvents {
		ev := tl.ActivityEvents[i]
		if ev.Timestamp.Before(*tl.ActualStart) || ev.Timestamp.After(*tl.WorkEnd) {
			continue
		}
		flush(Interval{Start: spanStart, End: ev.Timestamp})
		spanStart = ev.Timestamp
		opener = &tl.ActivityEvents[i]
	}
	flush(Interval{Start: spanStart, End: *tl.WorkEnd})

	tracked := workMinutes + nonWorkMinutes
	if residual := availableMinutes - tracked; residual > 0 {
		workMinutes += residual
	}

	res.WorkAppTimeMinutes = int(math.Round(workMinutes))
	res.NonWorkAppTimeMinutes = int(math.Round(nonWorkMinutes))
	res.ProductiveTimeMinutes = res.WorkAppTimeMinutes
	return res
}
