package approval

import "errors"

var ErrApprovalNotFound = errors.New("day approval record not found")
