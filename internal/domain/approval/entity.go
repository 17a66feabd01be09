package approval

import "time"

// DayApproval is the per (staff, work day) approval record. ApprovedMinutes is
// a snapshot taken at approval time; it is never recomputed behind the
// approver's back, only by an explicit re-approval.
type DayApproval struct {
	StaffID         int64
	WorkDate        time.Time
	Approved        bool
	ApprovedMinutes *int
	ApprovedBy      *string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (a DayApproval) Day() string {
	return a.WorkDate.Format("2006-01-02")
}
