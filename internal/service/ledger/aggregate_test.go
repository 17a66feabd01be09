package ledger

import (
	"testing"
	"time"

	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
	"github.com/stretchr/testify/assert"
)

func closedSession(checkin time.Time, minutes int) session.Session {
	checkout := checkin.Add(time.Duration(minutes) * time.Minute)
	return session.Session{CheckinAt: checkin, CheckoutAt: &checkout}
}

func TestSumMinutes_ClosedSessionsOnly(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		closedSession(base, 60),
		closedSession(base.Add(2*time.Hour), 75),
	}

	assert.Equal(t, 135, SumMinutes(sessions, AggregateOptions{}))
}

func TestSumMinutes_OpenSessionContributesZeroByDefault(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		closedSession(base, 60),
		{CheckinAt: base.Add(3 * time.Hour)}, // still checked in
	}

	assert.Equal(t, 60, SumMinutes(sessions, AggregateOptions{}))
}

func TestSumMinutes_CountOpenAsNow(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC)

	sessions := []session.Session{
		{CheckinAt: base},
	}

	now := base.Add(90 * time.Minute)
	assert.Equal(t, 90, SumMinutes(sessions, AggregateOptions{CountOpenAsNow: true, Now: now}))

	// Now before checkin never goes negative.
	assert.Equal(t, 0, SumMinutes(sessions, AggregateOptions{CountOpenAsNow: true, Now: base.Add(-time.Hour)}))
}

func TestSumMinutes_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, SumMinutes(nil, AggregateOptions{}))
}

func TestIntervalsOverlap(t *testing.T) {
	t.Parallel()
	at := func(h, m int) time.Time {
		return time.Date(2025, 10, 5, h, m, 0, 0, time.UTC)
	}
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name           string
		aStart         time.Time
		aEnd           *time.Time
		bStart         time.Time
		bEnd           *time.Time
		expectConflict bool
	}{
		{"disjoint", at(8, 0), ptr(at(10, 0)), at(11, 0), ptr(at(12, 0)), false},
		{"touching endpoints do not overlap", at(8, 0), ptr(at(10, 0)), at(10, 0), ptr(at(12, 0)), false},
		{"partial overlap", at(8, 0), ptr(at(10, 0)), at(9, 30), ptr(at(12, 0)), true},
		{"containment", at(8, 0), ptr(at(12, 0)), at(9, 0), ptr(at(10, 0)), true},
		{"identical", at(8, 0), ptr(at(10, 0)), at(8, 0), ptr(at(10, 0)), true},
		{"open interval blocks later session", at(8, 0), nil, at(9, 0), ptr(at(10, 0)), true},
		{"closed before open start", at(6, 0), ptr(at(7, 0)), at(8, 0), nil, false},
		{"two open intervals", at(8, 0), nil, at(9, 0), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectConflict, intervalsOverlap(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tt.expectConflict, intervalsOverlap(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd))
		})
	}
}

func TestMinutesToHours(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, minutesToHours(0))
	assert.Equal(t, 2.25, minutesToHours(135))
	assert.Equal(t, 6.5, minutesToHours(390))
	assert.Equal(t, 0.17, minutesToHours(10))
}
