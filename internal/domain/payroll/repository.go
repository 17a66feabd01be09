package payroll

import (
	"context"
)

type PaymentRepository interface {
	// GetForMonth retrieves payment rows for the month starting at monthStart,
	// keyed by staff id.
	GetForMonth(ctx context.Context, monthStart string) (map[int64]MonthPayment, error)

	// Get retrieves one staff member's payment row for the month; returns
	// ErrMonthPaymentNotFound when no row exists yet.
	Get(ctx context.Context, staffID int64, monthStart string) (MonthPayment, error)

	// Upsert writes the payment row keyed by (staff_id, month).
	Upsert(ctx context.Context, p MonthPayment) (MonthPayment, error)
}
