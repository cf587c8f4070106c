package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/schedule"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
)

type scheduleRepository struct {
	db *database.DB
}

// ListByEmployeeAndDate implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]schedule.ScheduleEntry, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, schedule_date, is_break,
			   shift_start, shift_end, break_start, break_duration_minutes,
			   is_confirmed, created_at, updated_at
		FROM schedule_entries
		WHERE employee_id = $1
		  AND schedule_date = $2
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []schedule.ScheduleEntry
	for rows.Next() {
		var entry schedule.ScheduleEntry
		err := rows.Scan(
			&entry.ID, &entry.EmployeeID, &entry.ScheduleDate, &entry.IsBreak,
			&entry.ShiftStart, &entry.ShiftEnd, &entry.BreakStart, &entry.BreakDurationMinutes,
			&entry.IsConfirmed, &entry.CreatedAt, &entry.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ListScheduledEmployeeIDs implements schedule.ScheduleRepository.
func (r *scheduleRepository) ListScheduledEmployeeIDs(ctx context.Context, date time.Time) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM schedule_entries
		WHERE schedule_date = $1
		  AND is_break = false
		  AND is_confirmed = true
		GROUP BY employee_id
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled employees: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func NewScheduleRepository(db *database.DB) schedule.ScheduleRepository {
	return &scheduleRepository{db: db}
}
