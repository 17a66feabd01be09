package audit

import (
	"context"
)

type AuditRepository interface {
	// Insert appends one event. There is no update or delete.
	Insert(ctx context.Context, e Event) (Event, error)

	// ListByStaffAndDay retrieves events for (staffID, workDate), oldest first.
	ListByStaffAndDay(ctx context.Context, staffID int64, workDate string) ([]Event, error)

	// SessionEditDays returns, out of the given work days, the ones on which
	// the staff member has at least one session mutation on record.
	SessionEditDays(ctx context.Context, staffID int64, fromDate, toDate string) (map[string]bool, error)
}
