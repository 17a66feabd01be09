package payroll

import (
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MonthSummaryRow is one staff member's payable view of a month: approved
// hours, wage, computed (or overridden) amount, and payment status.
type MonthSummaryRow struct {
	StaffID            int64            `json:"staff_id"`
	StaffName          string           `json:"staff_name"`
	Month              string           `json:"month"`
	ApprovedHoursMonth decimal.Decimal  `json:"approved_hours_month"`
	HourlyWage         decimal.Decimal  `json:"hourly_wage"`
	ApprovedAmount     decimal.Decimal  `json:"approved_amount"`
	Paid               bool             `json:"paid"`
	PaidAt             *string          `json:"paid_at,omitempty"`
	AmountPaid         *decimal.Decimal `json:"amount_paid,omitempty"`
	Reference          *string          `json:"reference,omitempty"`
	PaidBy             *string          `json:"paid_by,omitempty"`
}

type SetMonthPaidRequest struct {
	StaffID    int64            `json:"-"`
	Month      string           `json:"-"`
	Paid       bool             `json:"paid"`
	PaidAt     *string          `json:"paid_at,omitempty"`
	AmountPaid *decimal.Decimal `json:"amount_paid,omitempty"`
	Reference  *string          `json:"reference,omitempty"`
	PaidBy     *string          `json:"paid_by,omitempty"`
}

func (r *SetMonthPaidRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StaffID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.PaidAt != nil {
		if _, ok := validator.IsValidDateTime(*r.PaidAt); !ok {
			errs = append(errs, validator.ValidationError{Field: "paid_at", Message: "must be an ISO-8601 timestamp"})
		}
	}
	if r.AmountPaid != nil && r.AmountPaid.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount_paid", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetAmountOverrideRequest struct {
	StaffID int64            `json:"-"`
	Month   string           `json:"-"`
	Amount  *decimal.Decimal `json:"amount"` // null clears the override
}

func (r *SetAmountOverrideRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StaffID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "staff_id", Message: "is required"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// MatrixCell is one (staff, day) cell of the payroll matrix. Cells are always
// densely populated: no sessions means zero hours and not approved.
type MatrixCell struct {
	Date          string  `json:"date"`
	Hours         float64 `json:"hours"`
	Approved      bool    `json:"approved"`
	ApprovedHours float64 `json:"approved_hours"`
	HasEdits      bool    `json:"has_edits"`
}

type MatrixRow struct {
	StaffID   int64        `json:"staff_id"`
	StaffName string       `json:"staff_name"`
	Cells     []MatrixCell `json:"cells"`
}

type MatrixResponse struct {
	Days []string    `json:"days"`
	Rows []MatrixRow `json:"rows"`
}
