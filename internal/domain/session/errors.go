package session

import "errors"

// Session domain errors
var (
	ErrSessionNotFound = errors.New("attendance session not found")

	// ErrScheduleOverlap is raised when two intervals for the same staff member
	// intersect. The message is the one shown verbatim by the school frontends.
	ErrScheduleOverlap = errors.New("Los horarios se superponen")

	// ErrSessionOutsideDay is raised when an edited or added session's endpoints
	// do not fall on the work day it is being filed under.
	ErrSessionOutsideDay = errors.New("session does not belong to the work day it is filed under")

	ErrSessionNotOwned = errors.New("session does not belong to this staff member")
)
