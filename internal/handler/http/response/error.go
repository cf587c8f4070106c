package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, summary.ErrSummaryNotFound):
		NotFound(w, "Adherence summary not found")
	case errors.Is(err, schedule.ErrNoScheduleForDate):
		NotFound(w, "No confirmed schedule for the requested date")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
