package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/schoolops/payroll-ledger-go/internal/domain/audit"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.AuditRepository {
	return &auditRepository{db: db}
}

// Insert implements audit.AuditRepository. Events are append-only: there is no
// update or delete path anywhere in this repository.
func (r *auditRepository) Insert(ctx context.Context, e audit.Event) (audit.Event, error) {
	q := GetQuerier(ctx, r.db)

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Details == nil {
		e.Details = map[string]any{}
	}

	details, err := json.Marshal(e.Details)
	if err != nil {
		return audit.Event{}, fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, action, staff_id, work_date, session_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		e.ID, string(e.Action), e.StaffID, e.WorkDate, e.SessionID, details,
	).Scan(&e.CreatedAt)
	if err != nil {
		return audit.Event{}, fmt.Errorf("failed to insert audit event: %w", err)
	}

	return e, nil
}

// ListByStaffAndDay implements audit.AuditRepository.
func (r *auditRepository) ListByStaffAndDay(ctx context.Context, staffID int64, workDate string) ([]audit.Event, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, action, staff_id, work_date, session_id, details, created_at
		FROM audit_events
		WHERE staff_id = $1 AND work_date = $2::date
		ORDER BY created_at, id
	`

	rows, err := q.Query(ctx, query, staffID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}
	defer rows.Close()

	var result []audit.Event
	for rows.Next() {
		var e audit.Event
		var action string
		var details []byte
		if err := rows.Scan(&e.ID, &action, &e.StaffID, &e.WorkDate, &e.SessionID, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event row: %w", err)
		}
		e.Action = audit.Action(action)
		if err := json.Unmarshal(details, &e.Details); err != nil {
			return nil, fmt.Errorf("failed to decode audit details: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit event rows: %w", err)
	}

	return result, nil
}

// SessionEditDays implements audit.AuditRepository.
func (r *auditRepository) SessionEditDays(ctx context.Context, staffID int64, fromDate, toDate string) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT to_char(work_date, 'YYYY-MM-DD')
		FROM audit_events
		WHERE staff_id = $1
		  AND work_date >= $2::date
		  AND work_date <= $3::date
		  AND action IN ('create_session', 'update_session', 'delete_session')
	`

	rows, err := q.Query(ctx, query, staffID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query session edit days: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan edit day row: %w", err)
		}
		result[day] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate edit day rows: %w", err)
	}

	return result, nil
}
