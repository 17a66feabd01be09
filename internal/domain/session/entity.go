package session

import (
	"time"
)

// Session is one continuous presence interval for a staff member. Instants are
// stored in UTC; WorkDate is the payroll calendar day the interval is filed
// under, derived once by the time normalizer when the row is written.
type Session struct {
	ID                int64
	StaffID           int64
	CheckinAt         time.Time
	CheckoutAt        *time.Time
	WorkDate          time.Time
	OriginalSessionID *int64
	EditedAt          *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Closed reports whether the session has both endpoints.
func (s Session) Closed() bool {
	return s.CheckoutAt != nil
}

// Minutes returns the worked duration in whole minutes, floored at 0.
// Open sessions contribute 0: payroll totals only count closed intervals.
func (s Session) Minutes() int {
	if !s.Closed() {
		return 0
	}
	d := s.CheckoutAt.Sub(s.CheckinAt)
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}

// Day returns the canonical "YYYY-MM-DD" work day string.
func (s Session) Day() string {
	return s.WorkDate.Format("2006-01-02")
}

// IsOriginalRecord reports whether the row is untouched by manual correction:
// never edited in place and not a replacement for an earlier session.
func (s Session) IsOriginalRecord() bool {
	return s.EditedAt == nil && s.OriginalSessionID == nil
}
