package session

import (
	"context"
	"time"
)

// SessionRepository defines data access for raw attendance sessions.
// All writes are expected to run inside a transaction carried in ctx.
type SessionRepository interface {
	// Create inserts a session and returns it with its allocated id.
	Create(ctx context.Context, s Session) (Session, error)

	// GetByIDForUpdate retrieves a session with a row lock, so a concurrent
	// override of the same session blocks until this transaction finishes.
	GetByIDForUpdate(ctx context.Context, id int64) (Session, error)

	// Update replaces the session's endpoints and linkage columns.
	Update(ctx context.Context, s Session) (Session, error)

	// Delete removes a session; returns ErrSessionNotFound when absent.
	Delete(ctx context.Context, id int64) error

	// ListByStaffAndDay retrieves the staff member's sessions filed under the
	// given work day, ordered by check-in.
	ListByStaffAndDay(ctx context.Context, staffID int64, workDate string) ([]Session, error)

	// ListByStaffAndRange retrieves sessions filed between two work days inclusive.
	ListByStaffAndRange(ctx context.Context, staffID int64, fromDate, toDate string) ([]Session, error)

	// ListOverlapping retrieves the staff member's sessions whose [checkin,
	// checkout) interval intersects [start, end), excluding the given ids.
	// A nil end means the candidate interval is open. Open sessions on either
	// side are treated as unbounded on the right: nothing may be filed on top
	// of a still-running check-in.
	ListOverlapping(ctx context.Context, staffID int64, start time.Time, end *time.Time, excludeIDs []int64) ([]Session, error)
}
