package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/approval"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
)

type approvalRepository struct {
	db *database.DB
}

func NewApprovalRepository(db *database.DB) approval.ApprovalRepository {
	return &approvalRepository{db: db}
}

// Get implements approval.ApprovalRepository.
func (r *approvalRepository) Get(ctx context.Context, staffID int64, workDate string) (approval.DayApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_id, work_date, approved, approved_minutes,
			   approved_by, approved_at, created_at, updated_at
		FROM day_approvals
		WHERE staff_id = $1 AND work_date = $2::date
	`

	var a approval.DayApproval
	err := q.QueryRow(ctx, query, staffID, workDate).Scan(
		&a.StaffID, &a.WorkDate, &a.Approved, &a.ApprovedMinutes,
		&a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return approval.DayApproval{}, approval.ErrApprovalNotFound
		}
		return approval.DayApproval{}, fmt.Errorf("failed to get day approval: %w", err)
	}

	return a, nil
}

// Upsert implements approval.ApprovalRepository.
func (r *approvalRepository) Upsert(ctx context.Context, a approval.DayApproval) (approval.DayApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO day_approvals (
			staff_id, work_date, approved, approved_minutes, approved_by, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (staff_id, work_date) DO UPDATE SET
			approved = EXCLUDED.approved,
			approved_minutes = EXCLUDED.approved_minutes,
			approved_by = EXCLUDED.approved_by,
			approved_at = EXCLUDED.approved_at,
			updated_at = NOW()
		RETURNING staff_id, work_date, approved, approved_minutes,
			approved_by, approved_at, created_at, updated_at
	`

	var out approval.DayApproval
	err := q.QueryRow(ctx, query,
		a.StaffID, a.WorkDate, a.Approved, a.ApprovedMinutes, a.ApprovedBy, a.ApprovedAt,
	).Scan(
		&out.StaffID, &out.WorkDate, &out.Approved, &out.ApprovedMinutes,
		&out.ApprovedBy, &out.ApprovedAt, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return approval.DayApproval{}, fmt.Errorf("failed to upsert day approval: %w", err)
	}

	return out, nil
}

// ListByStaffAndRange implements approval.ApprovalRepository.
func (r *approvalRepository) ListByStaffAndRange(ctx context.Context, staffID int64, fromDate, toDate string) ([]approval.DayApproval, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_id, work_date, approved, approved_minutes,
			   approved_by, approved_at, created_at, updated_at
		FROM day_approvals
		WHERE staff_id = $1
		  AND work_date >= $2::date
		  AND work_date <= $3::date
		ORDER BY work_date
	`

	rows, err := q.Query(ctx, query, staffID, fromDate, toDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list day approvals: %w", err)
	}
	defer rows.Close()

	var result []approval.DayApproval
	for rows.Next() {
		var a approval.DayApproval
		if err := rows.Scan(
			&a.StaffID, &a.WorkDate, &a.Approved, &a.ApprovedMinutes,
			&a.ApprovedBy, &a.ApprovedAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan day approval row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate day approval rows: %w", err)
	}

	return result, nil
}

// SumApprovedByMonth implements approval.ApprovalRepository.
func (r *approvalRepository) SumApprovedByMonth(ctx context.Context, monthStart string) ([]approval.MonthTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT staff_id, COALESCE(SUM(approved_minutes), 0) AS approved_minutes
		FROM day_approvals
		WHERE approved = TRUE
		  AND work_date >= $1::date
		  AND work_date < ($1::date + INTERVAL '1 month')
		GROUP BY staff_id
		ORDER BY staff_id
	`

	rows, err := q.Query(ctx, query, monthStart)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved minutes by month: %w", err)
	}
	defer rows.Close()

	var result []approval.MonthTotal
	for rows.Next() {
		var t approval.MonthTotal
		if err := rows.Scan(&t.StaffID, &t.ApprovedMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan month total row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate month total rows: %w", err)
	}

	return result, nil
}
