package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cmlabs-hris/adherence-engine-go/internal/domain/event"
	"github.com/cmlabs-hris/adherence-engine-go/internal/pkg/database"
)

type eventRepository struct {
	db *database.DB
}

// ListByEmployeeAndWindow implements event.EventRepository.
func (r *eventRepository) ListByEmployeeAndWindow(ctx context.Context, employeeID string, from, to time.Time) ([]event.RawEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, event_timestamp, event_type,
			   application_name, is_work_application, metadata, created_at
		FROM raw_events
		WHERE employee_id = $1
		  AND event_timestamp >= $2
		  AND event_timestamp < $3
		ORDER BY event_timestamp ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query raw events: %w", err)
	}
	defer rows.Close()

	var events []event.RawEvent
	for rows.Next() {
		var ev event.RawEvent
		var eventType string
		var metadataRaw []byte
		err := rows.Scan(
			&ev.ID, &ev.EmployeeID, &ev.Timestamp, &eventType,
			&ev.ApplicationName, &ev.IsWorkApplication, &metadataRaw, &ev.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan raw event: %w", err)
		}
		ev.Type = event.EventType(eventType)
		if len(metadataRaw) > 0 {
			if err := json.Unmarshal(metadataRaw, &ev.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode event metadata: %w", err)
			}
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepository{db: db}
}
