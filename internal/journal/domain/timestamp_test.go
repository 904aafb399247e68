package domain

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)

	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"utc z suffix", "2025-03-14T09:30:00Z", time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)},
		{"stored form", "2025-03-14T09:30:00.123456Z", time.Date(2025, 3, 14, 9, 30, 0, 123456000, time.UTC)},
		{"offset", "2025-03-14T09:30:00+02:00", time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)},
		{"naive isoformat", "2025-03-14T09:30:00.500000", time.Date(2025, 3, 14, 9, 30, 0, 500000000, est)},
		{"naive space separated", "2025-03-14 09:30:00", time.Date(2025, 3, 14, 9, 30, 0, 0, est)},
		{"minutes only", "2025-03-14T09:30", time.Date(2025, 3, 14, 9, 30, 0, 0, est)},
		{"date only", "2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, est)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.input, est)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, input := range []string{"", "yesterday", "14/03/2025", "2025-13-01"} {
		_, err := ParseTimestamp(input, nil)
		assert.Error(t, err, input)
	}
}

func TestFormatTimestamp_SortsChronologically(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	times := []time.Time{
		base.Add(90 * time.Minute),
		base,
		base.Add(500 * time.Millisecond),
		base.Add(-26 * time.Hour).In(time.FixedZone("X", 3*3600)),
		base.Add(time.Microsecond),
	}

	formatted := make([]string, len(times))
	for i, ts := range times {
		formatted[i] = FormatTimestamp(ts)
	}
	sort.Strings(formatted)

	for i := 1; i < len(formatted); i++ {
		prev, err := ParseTimestamp(formatted[i-1], nil)
		require.NoError(t, err)
		next, err := ParseTimestamp(formatted[i], nil)
		require.NoError(t, err)
		assert.True(t, prev.Before(next), "%s !< %s", formatted[i-1], formatted[i])
	}
}

func TestCalendarDay(t *testing.T) {
	ts := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), CalendarDay(ts, nil))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, est), CalendarDay(ts, est))
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), CalendarDay(ts.Add(time.Hour), time.UTC))
}
