package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/exception"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
)

type exceptionRepository struct {
	db *database.DB
}

// ListApprovedOverlapping implements exception.ExceptionRepository.
func (r *exceptionRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, from, to time.Time) ([]exception.ExceptionRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, start_time, end_time, status, reason,
			   requested_minutes, approved_minutes, created_at, updated_at
		FROM exception_records
		WHERE employee_id = $1
		  AND status = 'APPROVED'
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query exception records: %w", err)
	}
	defer rows.Close()

	var records []exception.ExceptionRecord
	for rows.Next() {
		var rec exception.ExceptionRecord
		var status string
		err := rows.Scan(
			&rec.ID, &rec.EmployeeID, &rec.StartTime, &rec.EndTime, &status, &rec.Reason,
			&rec.RequestedMinutes, &rec.ApprovedMinutes, &rec.CreatedAt, &rec.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exception record: %w", err)
		}
		rec.Status = exception.Status(status)
		records = append(records, rec)
	}

	return records, rows.Err()
}

func NewExceptionRepository(db *database.DB) exception.ExceptionRepository {
	return &exceptionRepository{db: db}
}
