package adherence

import "time"

// Interval is a closed-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) Duration() time.Duration {
	if iv.End.Before(iv.Start) {
		return 0
	}
	return iv.End.Sub(iv.Start)
}

func (iv Interval) Minutes() float64 {
	return iv.Duration().Minutes()
}

// overlapMinutes returns the length in minutes of the intersection of two
// intervals, 0 when they do not overlap.
func overlapMinutes(a, b Interval) float64 {
	start := a.Start
	if b.Start.After(start) {
		start = b.Start
	}
	end := a.End
	if b.End.Before(end) {
		end = b.End
	}
	if !end.After(start) {
		return 0
	}
	return end.Sub(start).Minutes()
}

func sumMinutes(ivs []Interval) float64 {
	var total float64
	for _, iv := range ivs {
		total += iv.Minutes()
	}
	return total
}
