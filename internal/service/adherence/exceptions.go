package adherence

import (
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/exception"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
)

// ApplyExceptions offsets idle and away minutes with the approved exception
// pool and credits the same minutes as productive time. The full pool is
// applied to idle and to away independently (each floored at zero, not split
// between the two): an approved exception excuses the gap regardless of how
// the timeline classified it.
func ApplyExceptions(p ProductivityResult, records []exception.ExceptionRecord) (ProductivityResult, []summary.ExceptionAdjustmentDetail) {
	var total int
	details := make([]summary.ExceptionAdjustmentDetail, 0, len(records))
	for _, rec := range records {
		minutes := rec.AdjustmentMinutes()
		total += minutes
		details = append(details, summary.ExceptionAdjustmentDetail{
			ExceptionID: rec.ID,
			StartTime:   rec.StartTime,
			EndTime:     rec.EndTime,
			Minutes:     minutes,
		})
	}

	adjusted := p
	adjusted.IdleTimeMinutes = max(0, p.IdleTimeMinutes-total)
	adjusted.AwayTimeMinutes = max(0, p.AwayTimeMinutes-total)
	adjusted.ProductiveTimeMinutes = p.ProductiveTimeMinutes + total

	return adjusted, details
}
