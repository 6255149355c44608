package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want Period
	}{
		{"daily", Daily},
		{"WEEKLY", Weekly},
		{"  Monthly ", Monthly},
		{"yearly", Yearly},
		{"all", All},
	}

	for _, tt := range tests {
		got, err := Parse(tt.raw)
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "biannual", "quarterly", "day", "weekly!"} {
		_, err := Parse(raw)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "raw=%q", raw)
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, 0, -1), Daily.WindowStart(now, created))
	assert.Equal(t, now.AddDate(0, 0, -7), Weekly.WindowStart(now, created))
	assert.Equal(t, now.AddDate(0, 0, -30), Monthly.WindowStart(now, created))
	assert.Equal(t, now.AddDate(0, 0, -365), Yearly.WindowStart(now, created))
	assert.Equal(t, created, All.WindowStart(now, created))
}

func TestStaleBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	// Daily threshold is 24h: 23h old is fresh, 25h old is stale.
	assert.False(t, Daily.Stale(now.Add(-23*time.Hour), now))
	assert.True(t, Daily.Stale(now.Add(-25*time.Hour), now))

	assert.False(t, Weekly.Stale(now.AddDate(0, 0, -6), now))
	assert.True(t, Weekly.Stale(now.AddDate(0, 0, -8), now))

	// The all-time story never goes stale.
	assert.False(t, All.Stale(now.AddDate(-10, 0, 0), now))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Weekly", Weekly.Label())
	assert.Equal(t, "Career", All.Label())
}
