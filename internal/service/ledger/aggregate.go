package ledger

import (
	"math"
	"time"

	"github.com/schoolops/payroll-ledger-go/internal/domain/session"
)

// AggregateOptions controls how open (no checkout) sessions count toward a day
// total. The zero value is the payroll rule: open sessions contribute nothing
// until they are closed, keeping payroll totals deterministic. Live dashboards
// may opt in to treating Now as an implicit checkout.
type AggregateOptions struct {
	CountOpenAsNow bool
	Now            time.Time
}

// SumMinutes totals the worked minutes of the given sessions under opts.
func SumMinutes(sessions []session.Session, opts AggregateOptions) int {
	total := 0
	for _, s := range sessions {
		if !s.Closed() {
			if !opts.CountOpenAsNow {
				continue
			}
			d := opts.Now.Sub(s.CheckinAt)
			if d > 0 {
				total += int(d.Minutes())
			}
			continue
		}
		total += s.Minutes()
	}
	return total
}

// intervalsOverlap reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// A nil end is an open interval, unbounded on the right.
func intervalsOverlap(aStart time.Time, aEnd *time.Time, bStart time.Time, bEnd *time.Time) bool {
	aBeforeB := aEnd != nil && !aEnd.After(bStart)
	bBeforeA := bEnd != nil && !bEnd.After(aStart)
	return !aBeforeB && !bBeforeA
}

// minutesToHours converts minutes to hours rounded to 2 decimals.
func minutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}
