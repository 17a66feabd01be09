package session

import (
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
)

// SessionPayload is the wire shape for one session's endpoints.
// Timestamps are ISO-8601; a missing checkout means "still checked in".
type SessionPayload struct {
	CheckinTime  string  `json:"checkin_time"`
	CheckoutTime *string `json:"checkout_time,omitempty"`
}

func (p *SessionPayload) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(p.CheckinTime) {
		errs = append(errs, validator.ValidationError{Field: "checkin_time", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// OverrideEntry replaces the endpoints of an existing session.
type OverrideEntry struct {
	SessionID    int64  `json:"session_id"`
	CheckinTime  string `json:"checkin_time"`
	CheckoutTime string `json:"checkout_time"`
}

// AdditionEntry files a new session on the day. ReplacesSessionID optionally
// links it to a session deleted in the same batch, so frontends can show
// "this session replaced an earlier edited version".
type AdditionEntry struct {
	CheckinTime       string `json:"checkin_time"`
	CheckoutTime      string `json:"checkout_time"`
	ReplacesSessionID *int64 `json:"replaces_session_id,omitempty"`
}

// ApplyOverridesRequest is one transactional batch edit of a staff member's
// day: deletions, in-place overrides, and additions, followed by automatic
// re-approval of the recomputed day total.
type ApplyOverridesRequest struct {
	StaffID    int64           `json:"-"`
	WorkDate   string          `json:"-"`
	Deletions  []int64         `json:"deletions"`
	Overrides  []OverrideEntry `json:"overrides"`
	Additions  []AdditionEntry `json:"additions"`
	ApprovedBy *string         `json:"approved_by,omitempty"`
}

func (r *ApplyOverridesRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StaffID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if _, ok := validator.IsValidDate(r.WorkDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "work_date", Message: "must be YYYY-MM-DD"})
	}
	for i, o := range r.Overrides {
		if o.SessionID <= 0 {
			errs = append(errs, validator.ValidationError{Field: fieldAt("overrides", i, "session_id"), Message: "is required"})
		}
		if validator.IsEmpty(o.CheckinTime) {
			errs = append(errs, validator.ValidationError{Field: fieldAt("overrides", i, "checkin_time"), Message: "is required"})
		}
		if validator.IsEmpty(o.CheckoutTime) {
			errs = append(errs, validator.ValidationError{Field: fieldAt("overrides", i, "checkout_time"), Message: "is required"})
		}
	}
	for i, a := range r.Additions {
		if validator.IsEmpty(a.CheckinTime) {
			errs = append(errs, validator.ValidationError{Field: fieldAt("additions", i, "checkin_time"), Message: "is required"})
		}
		if validator.IsEmpty(a.CheckoutTime) {
			errs = append(errs, validator.ValidationError{Field: fieldAt("additions", i, "checkout_time"), Message: "is required"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldAt(list string, idx int, field string) string {
	return list + "[" + validator.Itoa(idx) + "]." + field
}

// DaySessionResponse is the read shape for one session as shown on a day view.
type DaySessionResponse struct {
	SessionID            int64   `json:"session_id"`
	StaffID              int64   `json:"staff_id"`
	WorkDate             string  `json:"work_date"`
	CheckinTime          string  `json:"checkin_time"`
	CheckoutTime         *string `json:"checkout_time,omitempty"`
	Minutes              int     `json:"minutes"`
	Hours                float64 `json:"hours"`
	OriginalSessionID    *int64  `json:"original_session_id,omitempty"`
	ReplacementSessionID *int64  `json:"replacement_session_id,omitempty"`
	IsOriginalRecord     bool    `json:"is_original_record"`
}
