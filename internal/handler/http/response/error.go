package response

import (
	"errors"
	"net/http"

	"github.com/schoolops/payroll-ledger-go/internal/domain/approval"
	"github.com/schoolops/payroll-ledger-go/internal/domain/payroll"
	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/schoolops/payroll-ledger-go/internal/domain/staff"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/timeutil"
	"github.com/schoolops/payroll-ledger-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Malformed inputs
	case errors.Is(err, timeutil.ErrInvalidTimestamp):
		BadRequest(w, "Invalid timestamp", nil)
	case errors.Is(err, timeutil.ErrInvalidDate):
		BadRequest(w, "Invalid date", nil)

	// Not found
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, session.ErrSessionNotOwned):
		NotFound(w, "Session not found")
	case errors.Is(err, approval.ErrApprovalNotFound):
		NotFound(w, "Day approval not found")
	case errors.Is(err, payroll.ErrMonthPaymentNotFound):
		NotFound(w, "Month payment not found")

	// Conflicts
	case errors.Is(err, session.ErrScheduleOverlap):
		Conflict(w, err.Error())
	case errors.Is(err, session.ErrSessionOutsideDay):
		Conflict(w, "Session does not belong to this work day")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
