package staff

import "context"

type StaffRepository interface {
	// GetByID retrieves a staff member; returns ErrStaffNotFound when absent.
	GetByID(ctx context.Context, id int64) (Staff, error)

	// GetByIDForUpdate retrieves a staff member with a row lock. Writers that
	// check session overlap take this lock first, so concurrent edits of the
	// same person's ledger serialize instead of racing past each other's
	// uncommitted rows.
	GetByIDForUpdate(ctx context.Context, id int64) (Staff, error)

	// ListActive retrieves active staff members ordered by name.
	ListActive(ctx context.Context) ([]Staff, error)
}
