package payroll

import (
	"context"
)

// PayrollService defines the read-side projections over approved days plus the
// independent payment bookkeeping.
type PayrollService interface {
	// MonthSummary projects approved days into per-staff payable rows for the
	// month starting at month ("YYYY-MM-01").
	MonthSummary(ctx context.Context, month string) ([]MonthSummaryRow, error)

	// Matrix builds the dense (staff x day) hours/approval matrix for an
	// inclusive day range.
	Matrix(ctx context.Context, fromDate, toDate string) (MatrixResponse, error)

	// SetMonthPaid records payment status for one staff member's month.
	// Deliberately not transactional with ledger data: payment recording is a
	// separate bookkeeping act.
	SetMonthPaid(ctx context.Context, req SetMonthPaidRequest) (MonthPayment, error)

	// SetAmountOverride stores or clears an explicit payable amount that
	// replaces the computed hours x wage on the month summary.
	SetAmountOverride(ctx context.Context, req SetAmountOverrideRequest) (MonthPayment, error)
}
