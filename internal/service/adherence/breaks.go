package adherence

import (
	"math"
	"sort"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
)

// BreakWindow is one scheduled break projected onto the day.
type BreakWindow struct {
	Start          time.Time
	End            time.Time
	PlannedMinutes int
}

// BreakMatch is the break-compliance result plus the audit detail.
type BreakMatch struct {
	CompliancePercentage float64
	MatchedCount         int
	MissedCount          int
	ExtendedCount        int

	Windows   []summary.BreakWindowDetail
	Intervals []summary.BreakIntervalDetail
}

// MatchBreaks pairs actual break intervals to scheduled windows. Windows are
// walked chronologically and each claims the first unmatched interval whose
// start lies inside the window and whose duration is at least the planned
// duration minus the tolerance. An interval satisfies at most one window, so
// one long break cannot cover two slots. A matched interval longer than the
// planned duration plus the tolerance flags the window as extended.
//
// Zero scheduled windows is full compliance: absence of a requirement
// cannot be violated.
func MatchBreaks(windows []BreakWindow, actual []Interval, toleranceMinutes int) BreakMatch {
	sortedWindows := make([]BreakWindow, len(windows))
	copy(sortedWindows, windows)
	sort.SliceStable(sortedWindows, func(i, j int) bool {
		return sortedWindows[i].Start.Before(sortedWindows[j].Start)
	})

	candidates := make([]Interval, len(actual))
	copy(candidates, actual)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	result := BreakMatch{
		Windows:   make([]summary.BreakWindowDetail, 0, len(sortedWindows)),
		Intervals: make([]summary.BreakIntervalDetail, 0, len(candidates)),
	}

	for _, iv := range candidates {
		result.Intervals = append(result.Intervals, summary.BreakIntervalDetail{
			Start:           iv.Start,
			End:             iv.End,
			DurationMinutes: int(math.Round(iv.Minutes())),
		})
	}

	tolerance := time.Duration(toleranceMinutes) * time.Minute
	claimed := make([]bool, len(candidates))

	for _, w := range sortedWindows {
		detail := summary.BreakWindowDetail{
			Start:                  w.Start,
			End:                    w.End,
			PlannedDurationMinutes: w.PlannedMinutes,
		}
		planned := time.Duration(w.PlannedMinutes) * time.Minute

		for i, iv := range candidates {
			if claimed[i] {
				continue
			}
			if iv.Start.Before(w.Start) || iv.Start.After(w.End) {
				continue
			}
			if iv.Duration() < planned-tolerance {
				continue
			}
			claimed[i] = true
			detail.Matched = true
			detail.Extended = iv.Duration() > planned+tolerance
			break
		}

		if detail.Matched {
			result.MatchedCount++
			if detail.Extended {
				result.ExtendedCount++
			}
		} else {
			result.MissedCount++
		}
		result.Windows = append(result.Windows, detail)
	}

	if len(sortedWindows) == 0 {
		result.CompliancePercentage = 100
	} else {
		result.CompliancePercentage = float64(result.MatchedCount) / float64(len(sortedWindows)) * 100
	}

	return result
}
