package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthPayment is the independent payment-status bookkeeping row for one staff
// member's month. AmountOverride, when set, replaces the computed
// hours x wage amount on the month summary; AmountPaid is what was actually
// disbursed.
type MonthPayment struct {
	StaffID        int64
	Month          time.Time
	Paid           bool
	PaidAt         *time.Time
	AmountPaid     *decimal.Decimal
	AmountOverride *decimal.Decimal
	Reference      *string
	PaidBy         *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
