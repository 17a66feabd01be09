package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/payroll"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payroll.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `
	staff_id, month, paid, paid_at, amount_paid, amount_override,
	reference, paid_by, created_at, updated_at`

func scanPayment(row pgx.Row) (payroll.MonthPayment, error) {
	var p payroll.MonthPayment
	err := row.Scan(
		&p.StaffID, &p.Month, &p.Paid, &p.PaidAt, &p.AmountPaid, &p.AmountOverride,
		&p.Reference, &p.PaidBy, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// Get implements payroll.PaymentRepository.
func (r *paymentRepository) Get(ctx context.Context, staffID int64, monthStart string) (payroll.MonthPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + paymentColumns + `
		FROM month_payments
		WHERE staff_id = $1 AND month = $2::date`

	p, err := scanPayment(q.QueryRow(ctx, query, staffID, monthStart))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.MonthPayment{}, payroll.ErrMonthPaymentNotFound
		}
		return payroll.MonthPayment{}, fmt.Errorf("failed to get month payment: %w", err)
	}

	return p, nil
}

// GetForMonth implements payroll.PaymentRepository.
func (r *paymentRepository) GetForMonth(ctx context.Context, monthStart string) (map[int64]payroll.MonthPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT` + paymentColumns + `
		FROM month_payments
		WHERE month = $1::date`

	rows, err := q.Query(ctx, query, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to list month payments: %w", err)
	}
	defer rows.Close()

	result := make(map[int64]payroll.MonthPayment)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan month payment row: %w", err)
		}
		result[p.StaffID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate month payment rows: %w", err)
	}

	return result, nil
}

// Upsert implements payroll.PaymentRepository.
func (r *paymentRepository) Upsert(ctx context.Context, p payroll.MonthPayment) (payroll.MonthPayment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO month_payments (
			staff_id, month, paid, paid_at, amount_paid, amount_override, reference, paid_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (staff_id, month) DO UPDATE SET
			paid = EXCLUDED.paid,
			paid_at = EXCLUDED.paid_at,
			amount_paid = EXCLUDED.amount_paid,
			amount_override = EXCLUDED.amount_override,
			reference = EXCLUDED.reference,
			paid_by = EXCLUDED.paid_by,
			updated_at = NOW()
		RETURNING` + paymentColumns

	out, err := scanPayment(q.QueryRow(ctx, query,
		p.StaffID, p.Month, p.Paid, p.PaidAt, p.AmountPaid, p.AmountOverride, p.Reference, p.PaidBy,
	))
	if err != nil {
		return payroll.MonthPayment{}, fmt.Errorf("failed to upsert month payment: %w", err)
	}

	return out, nil
}
