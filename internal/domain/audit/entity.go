package audit

import (
	"time"
)

// Action identifies the mutation an audit event records.
type Action string

const (
	ActionApproveDay    Action = "approve_day"
	ActionUnapproveDay  Action = "unapprove_day"
	ActionCreateSession Action = "create_session"
	ActionUpdateSession Action = "update_session"
	ActionDeleteSession Action = "delete_session"
)

// Event is one append-only audit row. Details holds a structured JSON snapshot
// (before/after session endpoints, approved minute totals). Events are written
// inside the same transaction as the mutation they describe and are never
// updated or deleted.
type Event struct {
	ID        string
	Action    Action
	StaffID   int64
	WorkDate  time.Time
	SessionID *int64
	Details   map[string]any
	CreatedAt time.Time
}
