package adherence

import "math"

// Sub-score weights. Productivity carries double weight by policy.
const (
	weightStart        = 0.2
	weightEnd          = 0.2
	weightBreaks       = 0.2
	weightProductivity = 0.4
)

// ScoreInput carries the four sub-score ingredients.
type ScoreInput struct {
	StartVarianceMinutes      int
	EndVarianceMinutes        int
	BreakCompliancePercentage float64
	ProductiveTimeMinutes     int
	ScheduledDurationMinutes  int
}

// Scores holds the sub-scores and the weighted total. Start, end and break
// scores are bounded to [0,100]; the productivity score is unbounded above
// because exception credits can push productive time past the scheduled
// duration, so the weighted total has a floor of 0 but no ceiling.
type Scores struct {
	StartScore          float64
	EndScore            float64
	BreakScore          float64
	ProductivityScore   float64
	AdherencePercentage float64
}

// ComputeScores applies the weighted scoring policy: two points lost per
// minute of start/end deviation in either direction (zero from a 50-minute
// deviation on), break compliance taken as-is, productivity relative to the
// scheduled duration, weighted 20/20/20/40 and rounded to two decimals.
func ComputeScores(in ScoreInput) Scores {
	s := Scores{
		StartScore: timelinessScore(in.StartVarianceMinutes),
		EndScore:   timelinessScore(in.EndVarianceMinutes),
		BreakScore: in.BreakCompliancePercentage,
	}
	if in.ScheduledDurationMinutes > 0 {
		s.ProductivityScore = float64(in.ProductiveTimeMinutes) / float64(in.ScheduledDurationMinutes) * 100
	}

	total := weightStart*s.StartScore +
		weightEnd*s.EndScore +
		weightBreaks*s.BreakScore +
		weightProductivity*s.ProductivityScore
	s.AdherencePercentage = math.Round(total*100) / 100
	return s
}

func timelinessScore(varianceMinutes int) float64 {
	deviation := math.Abs(float64(varianceMinutes))
	return math.Max(0, 100-2*deviation)
}
