package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/summary"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type summaryRepository struct {
	db *database.DB
}

// Upsert implements summary.SummaryRepository. The statement is atomic, so
// concurrent recomputes for the same key degrade to last-write-wins.
func (r *summaryRepository) Upsert(ctx context.Context, s summary.AdherenceSummary) (summary.AdherenceSummary, error) {
	q := GetQuerier(ctx, r.db)

	scheduledBreaks, err := json.Marshal(s.ScheduledBreaks)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("failed to encode scheduled breaks: %w", err)
	}
	actualBreaks, err := json.Marshal(s.ActualBreaks)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("failed to encode actual breaks: %w", err)
	}
	adjustments, err := json.Marshal(s.ExceptionAdjustments)
	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("failed to encode exception adjustments: %w", err)
	}

	query := `
		INSERT INTO adherence_summaries (
			employee_id, schedule_date,
			scheduled_start, scheduled_end, scheduled_duration_minutes,
			actual_start, actual_end, actual_duration_minutes,
			start_variance_minutes, end_variance_minutes,
			break_compliance_percentage, missed_breaks_count, extended_breaks_count,
			productive_time_minutes, idle_time_minutes, away_time_minutes, non_work_app_time_minutes,
			adherence_percentage,
			scheduled_breaks, actual_breaks, exception_adjustments,
			calculated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
		ON CONFLICT (employee_id, schedule_date) DO UPDATE SET
			scheduled_start = EXCLUDED.scheduled_start,
			scheduled_end = EXCLUDED.scheduled_end,
			scheduled_duration_minutes = EXCLUDED.scheduled_duration_minutes,
			actual_start = EXCLUDED.actual_start,
			actual_end = EXCLUDED.actual_end,
			actual_duration_minutes = EXCLUDED.actual_duration_minutes,
			start_variance_minutes = EXCLUDED.start_variance_minutes,
			end_variance_minutes = EXCLUDED.end_variance_minutes,
			break_compliance_percentage = EXCLUDED.break_compliance_percentage,
			missed_breaks_count = EXCLUDED.missed_breaks_count,
			extended_breaks_count = EXCLUDED.extended_breaks_count,
			productive_time_minutes = EXCLUDED.productive_time_minutes,
			idle_time_minutes = EXCLUDED.idle_time_minutes,
			away_time_minutes = EXCLUDED.away_time_minutes,
			non_work_app_time_minutes = EXCLUDED.non_work_app_time_minutes,
			adherence_percentage = EXCLUDED.adherence_percentage,
			scheduled_breaks = EXCLUDED.scheduled_breaks,
			actual_breaks = EXCLUDED.actual_breaks,
			exception_adjustments = EXCLUDED.exception_adjustments,
			calculated_at = EXCLUDED.calculated_at
		RETURNING id, calculated_at
	`

	err = q.QueryRow(ctx, query,
		s.EmployeeID,
		s.ScheduleDate.Format("2006-01-02"),
		s.ScheduledStart,
		s.ScheduledEnd,
		s.ScheduledDurationMinutes,
		s.ActualStart,
		s.ActualEnd,
		s.ActualDurationMinutes,
		s.StartVarianceMinutes,
		s.EndVarianceMinutes,
		s.BreakCompliancePercentage,
		s.MissedBreaksCount,
		s.ExtendedBreaksCount,
		s.ProductiveTimeMinutes,
		s.IdleTimeMinutes,
		s.AwayTimeMinutes,
		s.NonWorkAppTimeMinutes,
		s.AdherencePercentage,
		scheduledBreaks,
		actualBreaks,
		adjustments,
		s.CalculatedAt,
	).Scan(&s.ID, &s.CalculatedAt)

	if err != nil {
		return summary.AdherenceSummary{}, fmt.Errorf("failed to upsert adherence summary: %w", err)
	}

	return s, nil
}

// GetByEmployeeAndDate implements summary.SummaryRepository.
func (r *summaryRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (summary.AdherenceSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := selectColumns + `
		FROM adherence_summaries
		WHERE employee_id = $1
		  AND schedule_date = $2
	`

	s, err := scanSummary(q.QueryRow(ctx, query, employeeID, date.Format("2006-01-02")))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return summary.AdherenceSummary{}, summary.ErrSummaryNotFound
		}
		return summary.AdherenceSummary{}, fmt.Errorf("failed to get adherence summary: %w", err)
	}

	return s, nil
}

// List implements summary.SummaryRepository.
func (r *summaryRepository) List(ctx context.Context, filter summary.ListFilter) ([]summary.AdherenceSummary, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1 = 1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND schedule_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND schedule_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM adherence_summaries WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count adherence summaries: %w", err)
	}

	selectQuery := fmt.Sprintf(selectColumns+`
		FROM adherence_summaries
		WHERE %s
		ORDER BY schedule_date DESC, employee_id ASC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query adherence summaries: %w", err)
	}
	defer rows.Close()

	var summaries []summary.AdherenceSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan adherence summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, total, rows.Err()
}

const selectColumns = `
	SELECT id, employee_id, schedule_date,
		   scheduled_start, scheduled_end, scheduled_duration_minutes,
		   actual_start, actual_end, actual_duration_minutes,
		   start_variance_minutes, end_variance_minutes,
		   break_compliance_percentage, missed_breaks_count, extended_breaks_count,
		   productive_time_minutes, idle_time_minutes, away_time_minutes, non_work_app_time_minutes,
		   adherence_percentage,
		   scheduled_breaks, actual_breaks, exception_adjustments,
		   calculated_at
`

func scanSummary(row pgx.Row) (summary.AdherenceSummary, error) {
	var s summary.AdherenceSummary
	var scheduledBreaks, actualBreaks, adjustments []byte

	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.ScheduleDate,
		&s.ScheduledStart, &s.ScheduledEnd, &s.ScheduledDurationMinutes,
		&s.ActualStart, &s.ActualEnd, &s.ActualDurationMinutes,
		&s.StartVarianceMinutes, &s.EndVarianceMinutes,
		&s.BreakCompliancePercentage, &s.MissedBreaksCount, &s.ExtendedBreaksCount,
		&s.ProductiveTimeMinutes, &s.IdleTimeMinutes, &s.AwayTimeMinutes, &s.NonWorkAppTimeMinutes,
		&s.AdherencePercentage,
		&scheduledBreaks, &actualBreaks, &adjustments,
		&s.CalculatedAt,
	)
	if err != nil {
		return summary.AdherenceSummary{}, err
	}

	if len(scheduledBreaks) > 0 {
		if err := json.Unmarshal(scheduledBreaks, &s.ScheduledBreaks); err != nil {
			return summary.AdherenceSummary{}, fmt.Errorf("failed to decode scheduled breaks: %w", err)
		}
	}
	if len(actualBreaks) > 0 {
		if err := json.Unmarshal(actualBreaks, &s.ActualBreaks); err != nil {
			return summary.AdherenceSummary{}, fmt.Errorf("failed to decode actual breaks: %w", err)
		}
	}
	if len(adjustments) > 0 {
		if err := json.Unmarshal(adjustments, &s.ExceptionAdjustments); err != nil {
			return summary.AdherenceSummary{}, fmt.Errorf("failed to decode exception adjustments: %w", err)
		}
	}

	return s, nil
}

func NewSummaryRepository(db *database.DB) summary.SummaryRepository {
	return &summaryRepository{db: db}
}
