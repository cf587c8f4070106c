package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/adherence-engine-go/internal/handler/http/response"
	"github.com/cmlabs-hris/adherence-engine-go/internal/service/adherence"
	"github.com/go-chi/chi/v5"
)

type AdherenceHandler interface {
	TriggerRun(w http.ResponseWriter, r *http.Request)
	ListSummaries(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
}

type adherenceHandlerImpl struct {
	engine    *adherence.Engine
	summaries summary.SummaryRepository
}

func NewAdherenceHandler(engine *adherence.Engine, summaries summary.SummaryRepository) AdherenceHandler {
	return &adherenceHandlerImpl{
		engine:    engine,
		summaries: summaries,
	}
}

type triggerRunRequest struct {
	Date string `json:"date"`
}

// TriggerRun implements AdherenceHandler. The batch runs synchronously; the
// response is the batch result including per-employee failures.
func (h *adherenceHandlerImpl) TriggerRun(w http.ResponseWriter, r *http.Request) {
	var req triggerRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		response.BadRequest(w, "Field 'date' must be formatted as YYYY-MM-DD", nil)
		return
	}

	result, err := h.engine.RunDate(r.Context(), date)
	if err != nil {
		slog.Error("Failed to run adherence batch", "date", req.Date, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Adherence run completed", result)
}

// ListSummaries implements AdherenceHandler.
func (h *adherenceHandlerImpl) ListSummaries(w http.ResponseWriter, r *http.Request) {
	filter := summary.ListFilter{Page: 1, Limit: 20}

	if v := r.URL.Query().Get("employee_id"); v != "" {
		filter.EmployeeID = &v
	}
	if v := r.URL.Query().Get("start_date"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			response.BadRequest(w, "Query param 'start_date' must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.StartDate = &v
	}
	if v := r.URL.Query().Get("end_date"); v != "" {
		if _, err := time.Parse("2006-01-02", v); err != nil {
			response.BadRequest(w, "Query param 'end_date' must be formatted as YYYY-MM-DD", nil)
			return
		}
		filter.EndDate = &v
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	summaries, total, err := h.summaries.List(r.Context(), filter)
	if err != nil {
		slog.Error("Failed to list adherence summaries", "error", err)
		response.HandleError(w, err)
		return
	}

	items := make([]summary.SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		items = append(items, s.ToResponse())
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	response.SuccessWithMeta(w, items, &response.Meta{
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalItems: total,
		TotalPages: totalPages,
	})
}

// GetSummary implements AdherenceHandler.
func (h *adherenceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeID")
	dateStr := chi.URLParam(r, "date")

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.BadRequest(w, "Path segment 'date' must be formatted as YYYY-MM-DD", nil)
		return
	}

	s, err := h.summaries.GetByEmployeeAndDate(r.Context(), employeeID, date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, s.ToResponse())
}
