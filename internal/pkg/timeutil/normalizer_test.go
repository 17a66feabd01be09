package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// America/Lima is UTC-5 year round, so local evenings land on the next UTC day.
func newTestNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer("America/Lima")
	require.NoError(t, err)
	return n
}

func TestNewNormalizer_InvalidZone(t *testing.T) {
	t.Parallel()
	_, err := NewNormalizer("Not/AZone")
	assert.Error(t, err)
}

func TestInstant_AcceptedShapes(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset",
			input: "2025-10-05T08:00:00-05:00",
			want:  time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "rfc3339 utc",
			input: "2025-10-05T13:00:00Z",
			want:  time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "offset-less iso timestamp interpreted in payroll zone",
			input: "2025-10-05T08:00:00",
			want:  time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "naive timestamp interpreted in payroll zone",
			input: "2025-10-05 08:00:00",
			want:  time.Date(2025, 10, 5, 13, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only is local midnight",
			input: "2025-10-05",
			want:  time.Date(2025, 10, 5, 5, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Instant(tt.input)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestInstant_Invalid(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	for _, input := range []string{"", "yesterday", "05/10/2025", "2025-13-40T00:00:00Z"} {
		_, err := n.Instant(input)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", input)
	}
}

func TestLocalDay_CrossesUTCDayBoundary(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	// 23:50 local on Oct 5 is 04:50 UTC on Oct 6. The payroll day must stay Oct 5.
	instant, err := n.Instant("2025-10-05T23:50:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 6, 4, 50, 0, 0, time.UTC), instant)
	assert.Equal(t, "2025-10-05", n.LocalDay(instant))
}

func TestLocalDay_EarlyMorning(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	// 02:00 UTC is 21:00 local the previous day.
	instant := time.Date(2025, 10, 6, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-10-05", n.LocalDay(instant))
}

func TestParseDay(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	day, err := n.ParseDay("2025-10-05")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-05", day.Format("2006-01-02"))
	assert.Equal(t, n.Location(), day.Location())

	for _, input := range []string{"2025-10-5", "05-10-2025", "2025-10-05T00:00:00Z", ""} {
		_, err := n.ParseDay(input)
		assert.ErrorIs(t, err, ErrInvalidDate, "input %q", input)
	}
}

func TestParseMonth(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	month, err := n.ParseMonth("2025-10-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-10-01", month.Format("2006-01-02"))

	_, err = n.ParseMonth("2025-10-15")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDayRange(t *testing.T) {
	t.Parallel()
	n := newTestNormalizer(t)

	days, err := n.DayRange("2025-10-30", "2025-11-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-30", "2025-10-31", "2025-11-01", "2025-11-02"}, days)

	days, err = n.DayRange("2025-10-05", "2025-10-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-10-05"}, days)

	_, err = n.DayRange("2025-10-05", "2025-10-04")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
