package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/approval"
	"github.com/schoolops/payroll-ledger-go/internal/domain/audit"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/domain/staff"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/database"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/timeutil"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
	"github.com/schoolops/payroll-ledger-go/internal/repository/postgresql"
)

type LedgerServiceImpl struct {
	db         *database.DB
	normalizer *timeutil.Normalizer

	staffRepo    staff.StaffRepository
	sessionRepo  session.SessionRepository
	approvalRepo approval.ApprovalRepository
	auditRepo    audit.AuditRepository
}

func NewLedgerService(
	db *database.DB,
	normalizer *timeutil.Normalizer,
	staffRepo staff.StaffRepository,
	sessionRepo session.SessionRepository,
	approvalRepo approval.ApprovalRepository,
	auditRepo audit.AuditRepository,
) session.LedgerService {
	return &LedgerServiceImpl{
		db:           db,
		normalizer:   normalizer,
		staffRepo:    staffRepo,
		sessionRepo:  sessionRepo,
		approvalRepo: approvalRepo,
		auditRepo:    auditRepo,
	}
}

func invalidField(field, message string) error {
	return validator.ValidationErrors{{Field: field, Message: message}}
}

// parseWorkDate validates the "YYYY-MM-DD" day the caller filed the request
// under. Malformed input is a validation error, surfaced before any mutation.
func (l *LedgerServiceImpl) parseWorkDate(workDate string) (time.Time, error) {
	day, err := l.normalizer.ParseDay(workDate)
	if err != nil {
		return time.Time{}, invalidField("work_date", "must be YYYY-MM-DD")
	}
	return day, nil
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatInstant(*t)
	return &s
}

func sessionSnapshot(s session.Session) map[string]any {
	snap := map[string]any{
		"checkin_time": formatInstant(s.CheckinAt),
		"work_date":    s.Day(),
	}
	if s.CheckoutAt != nil {
		snap["checkout_time"] = formatInstant(*s.CheckoutAt)
	}
	return snap
}

func (l *LedgerServiceImpl) toDaySessionResponse(s session.Session, replacementID *int64) session.DaySessionResponse {
	minutes := s.Minutes()
	return session.DaySessionResponse{
		SessionID:            s.ID,
		StaffID:              s.StaffID,
		WorkDate:             s.Day(),
		CheckinTime:          formatInstant(s.CheckinAt),
		CheckoutTime:         formatInstantPtr(s.CheckoutAt),
		Minutes:              minutes,
		Hours:                minutesToHours(minutes),
		OriginalSessionID:    s.OriginalSessionID,
		ReplacementSessionID: replacementID,
		IsOriginalRecord:     s.IsOriginalRecord(),
	}
}

func toApprovalResponse(a approval.DayApproval) session.DayApprovalResponse {
	return session.DayApprovalResponse{
		StaffID:         a.StaffID,
		WorkDate:        a.Day(),
		Approved:        a.Approved,
		ApprovedMinutes: a.ApprovedMinutes,
		ApprovedBy:      a.ApprovedBy,
		ApprovedAt:      formatInstantPtr(a.ApprovedAt),
	}
}

// TotalMinutes implements session.LedgerService. Pure read: only closed
// sessions count, so payroll totals stay deterministic.
func (l *LedgerServiceImpl) TotalMinutes(ctx context.Context, staffID int64, workDate string) (session.DayTotalResponse, error) {
	if _, err := l.parseWorkDate(workDate); err != nil {
		return session.DayTotalResponse{}, err
	}

	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return session.DayTotalResponse{}, err
	}

	sessions, err := l.sessionRepo.ListByStaffAndDay(ctx, staffID, workDate)
	if err != nil {
		return session.DayTotalResponse{}, fmt.Errorf("failed to list day sessions: %w", err)
	}

	minutes := SumMinutes(sessions, AggregateOptions{})
	return session.DayTotalResponse{
		StaffID:  staffID,
		WorkDate: workDate,
		Minutes:  minutes,
		Hours:    minutesToHours(minutes),
	}, nil
}

// DaySessions implements session.LedgerService.
func (l *LedgerServiceImpl) DaySessions(ctx context.Context, staffID int64, workDate string) ([]session.DaySessionResponse, error) {
	if _, err := l.parseWorkDate(workDate); err != nil {
		return nil, err
	}

	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return nil, err
	}

	sessions, err := l.sessionRepo.ListByStaffAndDay(ctx, staffID, workDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list day sessions: %w", err)
	}

	// Reverse linkage: a row is somebody's replacement if it names them as its
	// original. Resolvable only while both ends sit on the same day view.
	replacedBy := make(map[int64]int64)
	for _, s := range sessions {
		if s.OriginalSessionID != nil {
			replacedBy[*s.OriginalSessionID] = s.ID
		}
	}

	result := make([]session.DaySessionResponse, 0, len(sessions))
	for _, s := range sessions {
		var replacementID *int64
		if id, ok := replacedBy[s.ID]; ok {
			replacementID = &id
		}
		result = append(result, l.toDaySessionResponse(s, replacementID))
	}
	return result, nil
}

// ApproveDay implements session.LedgerService. Recomputes the day total and
// snapshots it as payable, inside one transaction with its audit event.
func (l *LedgerServiceImpl) ApproveDay(ctx context.Context, staffID int64, workDate string, approvedBy *string) (session.DayApprovalResponse, error) {
	day, err := l.parseWorkDate(workDate)
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return session.DayApprovalResponse{}, err
	}

	var approved approval.DayApproval
	err = postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		sessions, err := l.sessionRepo.ListByStaffAndDay(txCtx, staffID, workDate)
		if err != nil {
			return fmt.Errorf("failed to list day sessions: %w", err)
		}
		minutes := SumMinutes(sessions, AggregateOptions{})

		now := time.Now().UTC()
		approved, err = l.approvalRepo.Upsert(txCtx, approval.DayApproval{
			StaffID:         staffID,
			WorkDate:        day,
			Approved:        true,
			ApprovedMinutes: &minutes,
			ApprovedBy:      approvedBy,
			ApprovedAt:      &now,
		})
		if err != nil {
			return err
		}

		_, err = l.auditRepo.Insert(txCtx, audit.Event{
			Action:   audit.ActionApproveDay,
			StaffID:  staffID,
			WorkDate: day,
			Details:  map[string]any{"approved_minutes": minutes, "approved_by": approvedBy},
		})
		return err
	})
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	return toApprovalResponse(approved), nil
}

// UnapproveDay implements session.LedgerService. The row is kept, flipped to
// not-approved with the snapshot cleared.
func (l *LedgerServiceImpl) UnapproveDay(ctx context.Context, staffID int64, workDate string) (session.DayApprovalResponse, error) {
	day, err := l.parseWorkDate(workDate)
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return session.DayApprovalResponse{}, err
	}

	var revoked approval.DayApproval
	err = postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		var err error
		revoked, err = l.unapproveDayTx(txCtx, staffID, day)
		return err
	})
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	return toApprovalResponse(revoked), nil
}

// unapproveDayTx flips (staffID, day) to not-approved and records the audit
// event, in the caller's transaction. Used by UnapproveDay and by every
// session mutation helper: approval must never point at pre-edit minutes.
func (l *LedgerServiceImpl) unapproveDayTx(txCtx context.Context, staffID int64, day time.Time) (approval.DayApproval, error) {
	revoked, err := l.approvalRepo.Upsert(txCtx, approval.DayApproval{
		StaffID:         staffID,
		WorkDate:        day,
		Approved:        false,
		ApprovedMinutes: nil,
		ApprovedBy:      nil,
		ApprovedAt:      nil,
	})
	if err != nil {
		return approval.DayApproval{}, err
	}

	_, err = l.auditRepo.Insert(txCtx, audit.Event{
		Action:   audit.ActionUnapproveDay,
		StaffID:  staffID,
		WorkDate: day,
		Details:  map[string]any{},
	})
	if err != nil {
		return approval.DayApproval{}, err
	}

	return revoked, nil
}

// normalizeEndpoints turns a payload's timestamps into UTC instants and checks
// ordering. fieldPrefix scopes validation messages ("checkin_time" vs
// "overrides[2].checkin_time").
func (l *LedgerServiceImpl) normalizeEndpoints(fieldPrefix, checkinTime string, checkoutTime *string) (time.Time, *time.Time, error) {
	checkin, err := l.normalizer.Instant(checkinTime)
	if err != nil {
		return time.Time{}, nil, invalidField(fieldPrefix+"checkin_time", "must be an ISO-8601 timestamp")
	}

	if checkoutTime == nil {
		return checkin, nil, nil
	}

	checkout, err := l.normalizer.Instant(*checkoutTime)
	if err != nil {
		return time.Time{}, nil, invalidField(fieldPrefix+"checkout_time", "must be an ISO-8601 timestamp")
	}
	if !checkout.After(checkin) {
		return time.Time{}, nil, invalidField(fieldPrefix+"checkout_time", "must be after checkin_time")
	}

	return checkin, &checkout, nil
}

// requireOnDay enforces "a session must belong to the day it's filed under":
// both endpoints must project onto workDate in the payroll timezone.
func (l *LedgerServiceImpl) requireOnDay(workDate string, checkin time.Time, checkout *time.Time) error {
	if l.normalizer.LocalDay(checkin) != workDate {
		return session.ErrSessionOutsideDay
	}
	if checkout != nil && l.normalizer.LocalDay(*checkout) != workDate {
		return session.ErrSessionOutsideDay
	}
	return nil
}

// checkNoOverlap verifies [checkin, checkout) against the staff member's other
// committed sessions, excluding excludeIDs, inside the current transaction.
func (l *LedgerServiceImpl) checkNoOverlap(txCtx context.Context, staffID int64, checkin time.Time, checkout *time.Time, excludeIDs []int64) error {
	conflicts, err := l.sessionRepo.ListOverlapping(txCtx, staffID, checkin, checkout, excludeIDs)
	if err != nil {
		return fmt.Errorf("failed to check session overlap: %w", err)
	}
	if len(conflicts) > 0 {
		return session.ErrScheduleOverlap
	}
	return nil
}

// CreateSession implements session.LedgerService: the plain manual-correction
// helper. The day's approval is invalidated in the same transaction.
func (l *LedgerServiceImpl) CreateSession(ctx context.Context, staffID int64, workDate string, payload session.SessionPayload) (session.DaySessionResponse, error) {
	if err := payload.Validate(); err != nil {
		return session.DaySessionResponse{}, err
	}
	day, err := l.parseWorkDate(workDate)
	if err != nil {
		return session.DaySessionResponse{}, err
	}
	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return session.DaySessionResponse{}, err
	}

	checkin, checkout, err := l.normalizeEndpoints("", payload.CheckinTime, payload.CheckoutTime)
	if err != nil {
		return session.DaySessionResponse{}, err
	}
	if err := l.requireOnDay(workDate, checkin, checkout); err != nil {
		return session.DaySessionResponse{}, err
	}

	var created session.Session
	err = postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// Serialize with other writers for this staff member. Without the
		// lock, two concurrent transactions can each pass the overlap check
		// against the other's still-uncommitted rows and both commit.
		if _, err := l.staffRepo.GetByIDForUpdate(txCtx, staffID); err != nil {
			return err
		}

		if err := l.checkNoOverlap(txCtx, staffID, checkin, checkout, nil); err != nil {
			return err
		}

		var err error
		created, err = l.sessionRepo.Create(txCtx, session.Session{
			StaffID:    staffID,
			CheckinAt:  checkin,
			CheckoutAt: checkout,
			WorkDate:   day,
		})
		if err != nil {
			return err
		}

		if _, err := l.auditRepo.Insert(txCtx, audit.Event{
			Action:    audit.ActionCreateSession,
			StaffID:   staffID,
			WorkDate:  day,
			SessionID: &created.ID,
			Details:   map[string]any{"after": sessionSnapshot(created)},
		}); err != nil {
			return err
		}

		_, err = l.unapproveDayTx(txCtx, staffID, day)
		return err
	})
	if err != nil {
		return session.DaySessionResponse{}, err
	}

	return l.toDaySessionResponse(created, nil), nil
}

// UpdateSession implements session.LedgerService. The session may move to a
// different day; approvals of every affected day are invalidated.
func (l *LedgerServiceImpl) UpdateSession(ctx context.Context, staffID int64, sessionID int64, payload session.SessionPayload) (session.DaySessionResponse, error) {
	if err := payload.Validate(); err != nil {
		return session.DaySessionResponse{}, err
	}
	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return session.DaySessionResponse{}, err
	}

	checkin, checkout, err := l.normalizeEndpoints("", payload.CheckinTime, payload.CheckoutTime)
	if err != nil {
		return session.DaySessionResponse{}, err
	}
	// The session moves to the check-in's local day; the checkout must still
	// land on that same day.
	if err := l.requireOnDay(l.normalizer.LocalDay(checkin), checkin, checkout); err != nil {
		return session.DaySessionResponse{}, err
	}
	newDay, err := l.normalizer.ParseDay(l.normalizer.LocalDay(checkin))
	if err != nil {
		return session.DaySessionResponse{}, err
	}

	var updated session.Session
	err = postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if _, err := l.staffRepo.GetByIDForUpdate(txCtx, staffID); err != nil {
			return err
		}

		current, err := l.sessionRepo.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}
		if current.StaffID != staffID {
			return session.ErrSessionNotOwned
		}

		if err := l.checkNoOverlap(txCtx, staffID, checkin, checkout, []int64{sessionID}); err != nil {
			return err
		}

		before := sessionSnapshot(current)
		oldDay := current.WorkDate

		now := time.Now().UTC()
		current.CheckinAt = checkin
		current.CheckoutAt = checkout
		current.WorkDate = newDay
		current.EditedAt = &now

		updated, err = l.sessionRepo.Update(txCtx, current)
		if err != nil {
			return err
		}

		if _, err := l.auditRepo.Insert(txCtx, audit.Event{
			Action:    audit.ActionUpdateSession,
			StaffID:   staffID,
			WorkDate:  newDay,
			SessionID: &sessionID,
			Details:   map[string]any{"before": before, "after": sessionSnapshot(updated)},
		}); err != nil {
			return err
		}

		if _, err := l.unapproveDayTx(txCtx, staffID, oldDay); err != nil {
			return err
		}
		if oldDay.Format("2006-01-02") != newDay.Format("2006-01-02") {
			if _, err := l.unapproveDayTx(txCtx, staffID, newDay); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return session.DaySessionResponse{}, err
	}

	return l.toDaySessionResponse(updated, nil), nil
}

// DeleteSession implements session.LedgerService.
func (l *LedgerServiceImpl) DeleteSession(ctx context.Context, staffID int64, sessionID int64) error {
	if _, err := l.staffRepo.GetByID(ctx, staffID); err != nil {
		return err
	}

	return postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		current, err := l.sessionRepo.GetByIDForUpdate(txCtx, sessionID)
		if err != nil {
			return err
		}
		if current.StaffID != staffID {
			return session.ErrSessionNotOwned
		}

		if err := l.sessionRepo.Delete(txCtx, sessionID); err != nil {
			return err
		}

		if _, err := l.auditRepo.Insert(txCtx, audit.Event{
			Action:    audit.ActionDeleteSession,
			StaffID:   staffID,
			WorkDate:  current.WorkDate,
			SessionID: &sessionID,
			Details:   map[string]any{"before": sessionSnapshot(current)},
		}); err != nil {
			return err
		}

		_, err = l.unapproveDayTx(txCtx, staffID, current.WorkDate)
		return err
	})
}
