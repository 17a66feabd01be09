package payroll

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/schoolops/payroll-ledger-go/internal/domain/approval"
	"github.com/schoolops/payroll-ledger-go/internal/domain/audit"
	"github.com/schoolops/payroll-ledger-go/internal/domain/payroll"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/domain/staff"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/timeutil"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	db         *database.DB
	normalizer *timeutil.Normalizer

	staffRepo    staff.StaffRepository
	sessionRepo  session.SessionRepository
	approvalRepo approval.ApprovalRepository
	auditRepo    audit.AuditRepository
	paymentRepo  payroll.PaymentRepository
}

func NewPayrollService(
	db *database.DB,
	normalizer *timeutil.Normalizer,
	staffRepo staff.StaffRepository,
	sessionRepo session.SessionRepository,
	approvalRepo approval.ApprovalRepository,
	auditRepo audit.AuditRepository,
	paymentRepo payroll.PaymentRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		db:           db,
		normalizer:   normalizer,
		staffRepo:    staffRepo,
		sessionRepo:  sessionRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
		paymentRepo:  paymentRepo,
	}
}

var sixty = decimal.NewFromInt(60)

// MinutesToHours converts approved minutes to payable hours, rounded to 2
// decimals.
func MinutesToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(sixty).Round(2)
}

// ApprovedAmount computes hours x wage unless an explicit override is stored.
func ApprovedAmount(hours, wage decimal.Decimal, override *decimal.Decimal) decimal.Decimal {
	if override != nil {
		return override.Round(2)
	}
	return hours.Mul(wage).Round(2)
}

func invalidField(field, message string) error {
	return validator.ValidationErrors{{Field: field, Message: message}}
}

func (s *PayrollServiceImpl) parseMonth(month string) (time.Time, error) {
	m, err := s.normalizer.ParseMonth(month)
	if err != nil {
		return time.Time{}, invalidField("month", "must be YYYY-MM-01")
	}
	return m, nil
}

// MonthSummary implements payroll.PayrollService. Read-only projection: sum of
// approved day snapshots joined with wage and the independent payment rows.
func (s *PayrollServiceImpl) MonthSummary(ctx context.Context, month string) ([]payroll.MonthSummaryRow, error) {
	if _, err := s.parseMonth(month); err != nil {
		return nil, err
	}

	staffList, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	totals, err := s.approvalRepo.SumApprovedByMonth(ctx, month)
	if err != nil {
		return nil, err
	}
	minutesByStaff := make(map[int64]int, len(totals))
	for _, t := range totals {
		minutesByStaff[t.StaffID] = t.ApprovedMinutes
	}

	payments, err := s.paymentRepo.GetForMonth(ctx, month)
	if err != nil {
		return nil, err
	}

	rows := make([]payroll.MonthSummaryRow, 0, len(staffList))
	for _, member := range staffList {
		hours := MinutesToHours(minutesByStaff[member.ID])

		row := payroll.MonthSummaryRow{
			StaffID:            member.ID,
			StaffName:          member.FullName,
			Month:              month,
			ApprovedHoursMonth: hours,
			HourlyWage:         member.HourlyWage,
		}

		payment, hasPayment := payments[member.ID]
		if hasPayment {
			row.ApprovedAmount = ApprovedAmount(hours, member.HourlyWage, payment.AmountOverride)
			row.Paid = payment.Paid
			row.AmountPaid = payment.AmountPaid
			row.Reference = payment.Reference
			row.PaidBy = payment.PaidBy
			if payment.PaidAt != nil {
				paidAt := payment.PaidAt.UTC().Format(time.RFC3339)
				row.PaidAt = &paidAt
			}
		} else {
			row.ApprovedAmount = ApprovedAmount(hours, member.HourlyWage, nil)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// Matrix implements payroll.PayrollService. Every (staff, day) cell in the
// range is populated: no sessions means zero hours and not-approved.
func (s *PayrollServiceImpl) Matrix(ctx context.Context, fromDate, toDate string) (payroll.MatrixResponse, error) {
	days, err := s.normalizer.DayRange(fromDate, toDate)
	if err != nil {
		return payroll.MatrixResponse{}, invalidField("range", "must be a valid YYYY-MM-DD range")
	}

	staffList, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return payroll.MatrixResponse{}, err
	}

	rows := make([]payroll.MatrixRow, 0, len(staffList))
	for _, member := range staffList {
		sessions, err := s.sessionRepo.ListByStaffAndRange(ctx, member.ID, fromDate, toDate)
		if err != nil {
			return payroll.MatrixResponse{}, err
		}
		minutesByDay := make(map[string]int)
		for _, sess := range sessions {
			minutesByDay[sess.Day()] += sess.Minutes()
		}

		approvals, err := s.approvalRepo.ListByStaffAndRange(ctx, member.ID, fromDate, toDate)
		if err != nil {
			return payroll.MatrixResponse{}, err
		}
		approvalByDay := make(map[string]approval.DayApproval, len(approvals))
		for _, a := range approvals {
			approvalByDay[a.Day()] = a
		}

		editDays, err := s.auditRepo.SessionEditDays(ctx, member.ID, fromDate, toDate)
		if err != nil {
			return payroll.MatrixResponse{}, err
		}

		cells := make([]payroll.MatrixCell, 0, len(days))
		for _, day := range days {
			cell := payroll.MatrixCell{
				Date:     day,
				Hours:    roundHours(minutesByDay[day]),
				HasEdits: editDays[day],
			}
			if a, ok := approvalByDay[day]; ok && a.Approved {
				cell.Approved = true
				if a.ApprovedMinutes != nil {
					cell.ApprovedHours = roundHours(*a.ApprovedMinutes)
				}
			}
			cells = append(cells, cell)
		}

		rows = append(rows, payroll.MatrixRow{
			StaffID:   member.ID,
			StaffName: member.FullName,
			Cells:     cells,
		})
	}

	return payroll.MatrixResponse{Days: days, Rows: rows}, nil
}

func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// SetMonthPaid implements payroll.PayrollService. A plain upsert: payment
// recording is bookkeeping, deliberately independent of ledger transactions.
func (s *PayrollServiceImpl) SetMonthPaid(ctx context.Context, req payroll.SetMonthPaidRequest) (payroll.MonthPayment, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthPayment{}, err
	}
	month, err := s.parseMonth(req.Month)
	if err != nil {
		return payroll.MonthPayment{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return payroll.MonthPayment{}, err
	}

	current, err := s.paymentRepo.Get(ctx, req.StaffID, req.Month)
	if err != nil && !errors.Is(err, payroll.ErrMonthPaymentNotFound) {
		return payroll.MonthPayment{}, err
	}

	payment := payroll.MonthPayment{
		StaffID:        req.StaffID,
		Month:          month,
		Paid:           req.Paid,
		AmountPaid:     req.AmountPaid,
		Reference:      req.Reference,
		PaidBy:         req.PaidBy,
		AmountOverride: current.AmountOverride, // survives payment updates
	}

	if req.Paid {
		if req.PaidAt != nil {
			paidAt, ok := validator.IsValidDateTime(*req.PaidAt)
			if !ok {
				return payroll.MonthPayment{}, invalidField("paid_at", "must be an ISO-8601 timestamp")
			}
			utc := paidAt.UTC()
			payment.PaidAt = &utc
		} else {
			now := time.Now().UTC()
			payment.PaidAt = &now
		}
	}

	updated, err := s.paymentRepo.Upsert(ctx, payment)
	if err != nil {
		return payroll.MonthPayment{}, fmt.Errorf("failed to record month payment: %w", err)
	}

	return updated, nil
}

// SetAmountOverride implements payroll.PayrollService.
func (s *PayrollServiceImpl) SetAmountOverride(ctx context.Context, req payroll.SetAmountOverrideRequest) (payroll.MonthPayment, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthPayment{}, err
	}
	month, err := s.parseMonth(req.Month)
	if err != nil {
		return payroll.MonthPayment{}, err
	}
	if _, err := s.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return payroll.MonthPayment{}, err
	}

	payment, err := s.paymentRepo.Get(ctx, req.StaffID, req.Month)
	if err != nil {
		if !errors.Is(err, payroll.ErrMonthPaymentNotFound) {
			return payroll.MonthPayment{}, err
		}
		payment = payroll.MonthPayment{StaffID: req.StaffID, Month: month}
	}

	payment.AmountOverride = req.Amount

	updated, err := s.paymentRepo.Upsert(ctx, payment)
	if err != nil {
		return payroll.MonthPayment{}, fmt.Errorf("failed to store amount override: %w", err)
	}

	return updated, nil
}
