package adherence

import (
	"testing"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/exception"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestApplyExceptions_SamePoolOffsetsIdleAndAway(t *testing.T) {
	base := ProductivityResult{
		ProductiveTimeMinutes: 400,
		IdleTimeMinutes:       45,
		AwayTimeMinutes:       20,
	}
	records := []exception.ExceptionRecord{
		{ID: "exc-1", Status: exception.StatusApproved, RequestedMinutes: 30},
	}

	adjusted, details := ApplyExceptions(base, records)

	// The full 30-minute pool applies to idle and away independently.
	assert.Equal(t, 15, adjusted.IdleTimeMinutes)
	assert.Equal(t, 0, adjusted.AwayTimeMinutes, "floored at zero, not negative")
	assert.Equal(t, 430, adjusted.ProductiveTimeMinutes)
	require.Len(t, details, 1)
	assert.Equal(t, "exc-1", details[0].ExceptionID)
	assert.Equal(t, 30, details[0].Minutes)
}

func TestApplyExceptions_ApprovedMinutesTakePrecedence(t *testing.T) {
	base := ProductivityResult{ProductiveTimeMinutes: 100, IdleTimeMinutes: 60}
	records := []exception.ExceptionRecord{
		{ID: "exc-1", Status: exception.StatusApproved, RequestedMinutes: 60, ApprovedMinutes: intPtr(20)},
	}

	adjusted, details := ApplyExceptions(base, records)

	assert.Equal(t, 40, adjusted.IdleTimeMinutes)
	assert.Equal(t, 120, adjusted.ProductiveTimeMinutes)
	assert.Equal(t, 20, details[0].Minutes)
}

func TestApplyExceptions_MultipleRecordsSum(t *testing.T) {
	base := ProductivityResult{ProductiveTimeMinutes: 100, IdleTimeMinutes: 25, AwayTimeMinutes: 50}
	records := []exception.ExceptionRecord{
		{ID: "exc-1", Status: exception.StatusApproved, RequestedMinutes: 15},
		{ID: "exc-2", Status: exception.StatusApproved, RequestedMinutes: 15},
	}

	adjusted, _ := ApplyExceptions(base, records)

	assert.Equal(t, 0, adjusted.IdleTimeMinutes)
	assert.Equal(t, 20, adjusted.AwayTimeMinutes)
	assert.Equal(t, 130, adjusted.ProductiveTimeMinutes)
}

func TestApplyExceptions_NoRecords(t *testing.T) {
	base := ProductivityResult{ProductiveTimeMinutes: 100, IdleTimeMinutes: 10, AwayTimeMinutes: 5}

	adjusted, details := ApplyExceptions(base, nil)

	assert.Equal(t, base, adjusted)
	assert.Empty(t, details)
}
