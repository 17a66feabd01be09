package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
)

const sessionColumns = `
	id, staff_id, checkin_at, checkout_at, work_date,
	original_session_id, edited_at, created_at, updated_at`

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) session.SessionRepository {
	return &sessionRepository{db: db}
}

func scanSession(row pgx.Row) (session.Session, error) {
	var s session.Session
	err := row.Scan(
		&s.ID, &s.StaffID, &s.CheckinAt, &s.CheckoutAt, &s.WorkDate,
		&s.OriginalSessionID, &s.EditedAt, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements session.SessionRepository.
func (r *sessionRepository) Create(ctx context.Context, newSession session.Session) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_sessions (
			staff_id, checkin_at, checkout_at, work_date, original_session_id
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING` + sessionColumns

	created, err := scanSession(q.QueryRow(ctx, query,
		newSession.StaffID,
		newSession.CheckinAt,
		newSession.CheckoutAt,
		newSession.WorkDate,
		newSession.OriginalSessionID,
	))
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	return created, nil
}

// GetByIDForUpdate implements session.SessionRepository.
func (r *sessionRepository) GetByIDForUpdate(ctx context.Context, id int64) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + sessionColumns + `
		FROM attendance_sessions
		WHERE id = $1
		FOR UPDATE`

	s, err := scanSession(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to lock session: %w", err)
	}

	return s, nil
}

// Update implements session.SessionRepository.
func (r *sessionRepository) Update(ctx context.Context, s session.Session) (session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_sessions
		SET checkin_at = $2,
			checkout_at = $3,
			work_date = $4,
			original_session_id = $5,
			edited_at = $6,
			updated_at = NOW()
		WHERE id = $1
		RETURNING` + sessionColumns

	updated, err := scanSession(q.QueryRow(ctx, query,
		s.ID, s.CheckinAt, s.CheckoutAt, s.WorkDate, s.OriginalSessionID, s.EditedAt,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return session.Session{}, session.ErrSessionNotFound
		}
		return session.Session{}, fmt.Errorf("failed to update session: %w", err)
	}

	return updated, nil
}

// Delete implements session.SessionRepository.
func (r *sessionRepository) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}

	return nil
}

// ListByStaffAndDay implements session.SessionRepository.
func (r *sessionRepository) ListByStaffAndDay(ctx context.Context, staffID int64, workDate string) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + sessionColumns + `
		FROM attendance_sessions
		WHERE staff_id = $1
		  AND work_date = $2::date
		ORDER BY checkin_at`

	rows, err := q.Query(ctx, query, staffID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by day: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListByStaffAndRange implements session.SessionRepository.
func (r *sessionRepository) ListByStaffAndRange(ctx context.Context, staffID int64, fromDate, toDate string) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + sessionColumns + `
		FROM attendance_sessions
		WHERE staff_id = $1
		  AND work_date >= $2::date
		  AND work_date <= $3::date
		ORDER BY work_date, checkin_at`

	rows, err := q.Query(ctx, query, staffID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions by range: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListOverlapping implements session.SessionRepository. Open sessions are
// unbounded on the right for overlap purposes: nothing can be filed on top of
// a still-running check-in.
func (r *sessionRepository) ListOverlapping(ctx context.Context, staffID int64, start time.Time, end *time.Time, excludeIDs []int64) ([]session.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + sessionColumns + `
		FROM attendance_sessions
		WHERE staff_id = $1
		  AND ($3::timestamptz IS NULL OR checkin_at < $3)
		  AND (checkout_at IS NULL OR checkout_at > $2)
		  AND NOT (id = ANY($4))
		ORDER BY checkin_at`

	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	rows, err := q.Query(ctx, query, staffID, start, end, excludeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]session.Session, error) {
	var result []session.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return result, nil
}
