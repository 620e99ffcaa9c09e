package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"9:05", 545, false},
		{"18:30", 1110, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"1230", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2025-02-30", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("2025/01/10", time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := ParseDate("2025-01-10", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-01-10", FormatDate(d))
}

func TestAt(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	got, err := At("2025-01-10", "19:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 11, 0, 0, 0, time.UTC), got.UTC())
}

func TestTodayUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	now := time.Date(2025, 1, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-01-11", Today(now, loc))
	assert.Equal(t, "2025-01-10", Today(now, time.UTC))
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, Age("2000-06-15", now, time.UTC))
	assert.Equal(t, 24, Age("2000-06-16", now, time.UTC))
	assert.Equal(t, 0, Age("not-a-date", now, time.UTC))
}
