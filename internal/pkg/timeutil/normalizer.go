// Package timeutil normalizes the time representations the ledger accepts and
// projects instants onto payroll calendar days.
//
// All instants are stored in UTC. Day bucketing always goes through the one
// configured payroll timezone: a check-in at 23:50 local can be 04:50 UTC the
// next day, and attributing it to the UTC day would move hours onto the wrong
// payroll day.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidDate      = errors.New("invalid date")
)

const dayLayout = "2006-01-02"

// Normalizer converts caller-supplied timestamps into canonical UTC instants
// and canonical local calendar days for a single fixed timezone.
type Normalizer struct {
	loc *time.Location
}

func NewNormalizer(timezone string) (*Normalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load payroll timezone %q: %w", timezone, err)
	}
	return &Normalizer{loc: loc}, nil
}

// Location returns the configured payroll timezone.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Instant parses value into a UTC instant. Accepted shapes:
//   - RFC3339 / RFC3339Nano (offset-bearing ISO-8601)
//   - "2006-01-02T15:04:05" (no offset; interpreted in the payroll timezone)
//   - "2006-01-02 15:04:05" (no offset; interpreted in the payroll timezone)
//   - "2006-01-02" (midnight in the payroll timezone)
func (n *Normalizer) Instant(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, n.loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04:05", value, n.loc); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation(dayLayout, value, n.loc); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// LocalDay returns the "YYYY-MM-DD" calendar day the instant falls on in the
// payroll timezone. Never uses UTC day boundaries.
func (n *Normalizer) LocalDay(t time.Time) string {
	return t.In(n.loc).Format(dayLayout)
}

// ParseDay parses a strict "YYYY-MM-DD" calendar day and returns midnight of
// that day in the payroll timezone.
func (n *Normalizer) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dayLayout, s, n.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseMonth parses a "YYYY-MM-01" month key (the first day of the month).
func (n *Normalizer) ParseMonth(s string) (time.Time, error) {
	t, err := n.ParseDay(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Day() != 1 {
		return time.Time{}, fmt.Errorf("%w: month must be the first of the month, got %q", ErrInvalidDate, s)
	}
	return t, nil
}

// DayRange expands [from, to] (inclusive "YYYY-MM-DD" bounds) into the ordered
// list of calendar days in between.
func (n *Normalizer) DayRange(from, to string) ([]string, error) {
	start, err := n.ParseDay(from)
	if err != nil {
		return nil, err
	}
	end, err := n.ParseDay(to)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %q before start %q", ErrInvalidDate, to, from)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(dayLayout))
	}
	return days, nil
}
