package approval

import (
	"context"
)

// MonthTotal is the sum of approved minutes for one staff member in one month.
type MonthTotal struct {
	StaffID         int64
	ApprovedMinutes int
}

type ApprovalRepository interface {
	// Get retrieves the approval row for (staffID, workDate); returns
	// ErrApprovalNotFound when no row exists yet.
	Get(ctx context.Context, staffID int64, workDate string) (DayApproval, error)

	// Upsert writes the approval row keyed by (staff_id, work_date). Rows are
	// never deleted; revoking approval keeps the row with approved = false.
	Upsert(ctx context.Context, a DayApproval) (DayApproval, error)

	// ListByStaffAndRange retrieves approval rows between two work days inclusive.
	ListByStaffAndRange(ctx context.Context, staffID int64, fromDate, toDate string) ([]DayApproval, error)

	// SumApprovedByMonth sums approved minutes per staff member for the month
	// starting at monthStart ("YYYY-MM-01").
	SumApprovedByMonth(ctx context.Context, monthStart string) ([]MonthTotal, error)
}
