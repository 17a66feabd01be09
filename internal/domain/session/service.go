package session

import (
	"context"
)

// DayApprovalResponse is the approval state returned by ledger operations.
type DayApprovalResponse struct {
	StaffID         int64   `json:"staff_id"`
	WorkDate        string  `json:"work_date"`
	Approved        bool    `json:"approved"`
	ApprovedMinutes *int    `json:"approved_minutes,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
	ApprovedAt      *string `json:"approved_at,omitempty"`
}

// DayTotalResponse is the aggregator's read view of one staff member's day.
type DayTotalResponse struct {
	StaffID  int64   `json:"staff_id"`
	WorkDate string  `json:"work_date"`
	Minutes  int     `json:"minutes"`
	Hours    float64 `json:"hours"`
}

// LedgerService defines the attendance ledger and approval engine: day
// aggregation, day-level approval, manual session correction, and the
// transactional whole-day override workflow.
type LedgerService interface {
	// TotalMinutes computes the worked minutes filed under (staffID, workDate).
	// Pure read; only closed sessions count.
	TotalMinutes(ctx context.Context, staffID int64, workDate string) (DayTotalResponse, error)

	// DaySessions retrieves the day's sessions as presentation-ready rows.
	DaySessions(ctx context.Context, staffID int64, workDate string) ([]DaySessionResponse, error)

	// ApproveDay snapshots the current day total as payable.
	ApproveDay(ctx context.Context, staffID int64, workDate string, approvedBy *string) (DayApprovalResponse, error)

	// UnapproveDay revokes the day's approval, keeping the row.
	UnapproveDay(ctx context.Context, staffID int64, workDate string) (DayApprovalResponse, error)

	// CreateSession files a new session manually and invalidates the day's approval.
	CreateSession(ctx context.Context, staffID int64, workDate string, payload SessionPayload) (DaySessionResponse, error)

	// UpdateSession replaces a session's endpoints and invalidates the day's approval.
	UpdateSession(ctx context.Context, staffID int64, sessionID int64, payload SessionPayload) (DaySessionResponse, error)

	// DeleteSession removes a session and invalidates the day's approval.
	DeleteSession(ctx context.Context, staffID int64, sessionID int64) error

	// ApplyOverrides runs the whole-day correction workflow: deletions,
	// overrides and additions in one transaction, then re-approves the day
	// against the recomputed total. All-or-nothing.
	ApplyOverrides(ctx context.Context, req ApplyOverridesRequest) (DayApprovalResponse, error)
}
