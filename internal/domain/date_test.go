package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_TruncatesToUTCMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	got := Date(time.Date(2026, 10, 5, 23, 59, 59, 0, loc))
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-10-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("10/05/2026")
	assert.Error(t, err)
}

func TestNights_ExcludesCheckOut(t *testing.T) {
	nights := Nights(
		time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC),
	)
	require.Len(t, nights, 3)
	assert.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), nights[0])
	assert.Equal(t, time.Date(2026, 10, 7, 0, 0, 0, 0, time.UTC), nights[2])
}

func TestNights_EmptyForInvertedOrEqualRange(t *testing.T) {
	day := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, Nights(day, day))
	assert.Empty(t, Nights(day.AddDate(0, 0, 1), day))
}
