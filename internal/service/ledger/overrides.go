package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/schoolops/payroll-ledger-go/internal/domain/approval"
	"github.com/schoolops/payroll-ledger-go/internal/domain/audit"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
	"github.com/schoolops/payroll-ledger-go/internal/repository/postgresql"
)

// candidate is an interval about to be written by ApplyOverrides: an override's
// new endpoints or an addition.
type candidate struct {
	sessionID int64 // 0 for additions
	checkin   time.Time
	checkout  *time.Time
	replaces  *int64
}

// ApplyOverrides implements session.LedgerService: the whole-day correction
// workflow. Deletions, overrides and additions are validated first, then
// applied, then the day is recomputed and re-approved, all in one transaction.
// Any failure rolls the whole batch back: no partial session edits, no partial
// audit trail, no stale approval.
func (l *LedgerServiceImpl) ApplyOverrides(ctx context.Context, req session.ApplyOverridesRequest) (session.DayApprovalResponse, error) {
	if err := req.Validate(); err != nil {
		return session.DayApprovalResponse{}, err
	}
	day, err := l.parseWorkDate(req.WorkDate)
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	if _, err := l.staffRepo.GetByID(ctx, req.StaffID); err != nil {
		return session.DayApprovalResponse{}, err
	}

	// Endpoint normalization and ordering/day checks need no database state;
	// do them before the transaction so bad input never opens one.
	candidates, err := l.normalizeBatch(req)
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	// Candidates are written together, so they must not overlap each other
	// either. Committed rows are re-checked inside the transaction below.
	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if intervalsOverlap(candidates[i].checkin, candidates[i].checkout, candidates[j].checkin, candidates[j].checkout) {
				return session.DayApprovalResponse{}, session.ErrScheduleOverlap
			}
		}
	}

	var approved approval.DayApproval
	err = postgresql.WithTransaction(ctx, l.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		// Serialize with other writers for this staff member before the
		// overlap re-query. A batch of pure additions touches no existing
		// session row, so without this lock two concurrent batches could each
		// miss the other's uncommitted inserts and both commit overlapping
		// sessions.
		if _, err := l.staffRepo.GetByIDForUpdate(txCtx, req.StaffID); err != nil {
			return err
		}

		// Lock every targeted row up front. Concurrent overrides of the same
		// sessions serialize here; validation failures after this point still
		// roll back cleanly because nothing has been written yet.
		deletions := make([]session.Session, 0, len(req.Deletions))
		for _, id := range req.Deletions {
			s, err := l.sessionRepo.GetByIDForUpdate(txCtx, id)
			if err != nil {
				return err
			}
			if s.StaffID != req.StaffID {
				return session.ErrSessionNotOwned
			}
			if s.Day() != req.WorkDate {
				return session.ErrSessionOutsideDay
			}
			deletions = append(deletions, s)
		}

		overrides := make([]session.Session, 0, len(req.Overrides))
		for _, o := range req.Overrides {
			s, err := l.sessionRepo.GetByIDForUpdate(txCtx, o.SessionID)
			if err != nil {
				return err
			}
			if s.StaffID != req.StaffID {
				return session.ErrSessionNotOwned
			}
			overrides = append(overrides, s)
		}

		// Replaced rows (deleted or overridden) are excluded from the overlap
		// re-query: the batch's own intervals take their place.
		excludeIDs := make([]int64, 0, len(req.Deletions)+len(req.Overrides))
		excludeIDs = append(excludeIDs, req.Deletions...)
		for _, o := range req.Overrides {
			excludeIDs = append(excludeIDs, o.SessionID)
		}
		for _, c := range candidates {
			if err := l.checkNoOverlap(txCtx, req.StaffID, c.checkin, c.checkout, excludeIDs); err != nil {
				return err
			}
		}

		// Deletions
		for _, s := range deletions {
			if err := l.sessionRepo.Delete(txCtx, s.ID); err != nil {
				return err
			}
			sessionID := s.ID
			if _, err := l.auditRepo.Insert(txCtx, audit.Event{
				Action:    audit.ActionDeleteSession,
				StaffID:   req.StaffID,
				WorkDate:  day,
				SessionID: &sessionID,
				Details:   map[string]any{"before": sessionSnapshot(s)},
			}); err != nil {
				return err
			}
		}

		// Overrides
		now := time.Now().UTC()
		for i, o := range req.Overrides {
			current := overrides[i]
			before := sessionSnapshot(current)

			current.CheckinAt = candidates[i].checkin
			current.CheckoutAt = candidates[i].checkout
			current.WorkDate = day
			current.EditedAt = &now

			updated, err := l.sessionRepo.Update(txCtx, current)
			if err != nil {
				return err
			}

			sessionID := o.SessionID
			if _, err := l.auditRepo.Insert(txCtx, audit.Event{
				Action:    audit.ActionUpdateSession,
				StaffID:   req.StaffID,
				WorkDate:  day,
				SessionID: &sessionID,
				Details:   map[string]any{"before": before, "after": sessionSnapshot(updated)},
			}); err != nil {
				return err
			}
		}

		// Additions
		for _, c := range candidates[len(req.Overrides):] {
			created, err := l.sessionRepo.Create(txCtx, session.Session{
				StaffID:           req.StaffID,
				CheckinAt:         c.checkin,
				CheckoutAt:        c.checkout,
				WorkDate:          day,
				OriginalSessionID: c.replaces,
			})
			if err != nil {
				return err
			}

			if _, err := l.auditRepo.Insert(txCtx, audit.Event{
				Action:    audit.ActionCreateSession,
				StaffID:   req.StaffID,
				WorkDate:  day,
				SessionID: &created.ID,
				Details:   map[string]any{"after": sessionSnapshot(created)},
			}); err != nil {
				return err
			}
		}

		// Recompute from the now-mutated session set and re-approve.
		sessions, err := l.sessionRepo.ListByStaffAndDay(txCtx, req.StaffID, req.WorkDate)
		if err != nil {
			return fmt.Errorf("failed to recompute day total: %w", err)
		}
		minutes := SumMinutes(sessions, AggregateOptions{})

		approvedAt := time.Now().UTC()
		approved, err = l.approvalRepo.Upsert(txCtx, approval.DayApproval{
			StaffID:         req.StaffID,
			WorkDate:        day,
			Approved:        true,
			ApprovedMinutes: &minutes,
			ApprovedBy:      req.ApprovedBy,
			ApprovedAt:      &approvedAt,
		})
		if err != nil {
			return err
		}

		_, err = l.auditRepo.Insert(txCtx, audit.Event{
			Action:   audit.ActionApproveDay,
			StaffID:  req.StaffID,
			WorkDate: day,
			Details:  map[string]any{"approved_minutes": minutes, "approved_by": req.ApprovedBy},
		})
		return err
	})
	if err != nil {
		return session.DayApprovalResponse{}, err
	}

	return toApprovalResponse(approved), nil
}

// normalizeBatch turns the request's overrides and additions into validated
// candidate intervals: instants normalized to UTC, checkout strictly after
// checkin, and both endpoints on the work day the batch is filed under.
// Overrides come first in the result, in request order, then additions.
func (l *LedgerServiceImpl) normalizeBatch(req session.ApplyOverridesRequest) ([]candidate, error) {
	candidates := make([]candidate, 0, len(req.Overrides)+len(req.Additions))

	for i, o := range req.Overrides {
		prefix := "overrides[" + validator.Itoa(i) + "]."
		checkout := o.CheckoutTime
		checkin, checkoutAt, err := l.normalizeEndpoints(prefix, o.CheckinTime, &checkout)
		if err != nil {
			return nil, err
		}
		if err := l.requireOnDay(req.WorkDate, checkin, checkoutAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{sessionID: o.SessionID, checkin: checkin, checkout: checkoutAt})
	}

	for i, a := range req.Additions {
		prefix := "additions[" + validator.Itoa(i) + "]."
		checkout := a.CheckoutTime
		checkin, checkoutAt, err := l.normalizeEndpoints(prefix, a.CheckinTime, &checkout)
		if err != nil {
			return nil, err
		}
		if err := l.requireOnDay(req.WorkDate, checkin, checkoutAt); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate{checkin: checkin, checkout: checkoutAt, replaces: a.ReplacesSessionID})
	}

	return candidates, nil
}
