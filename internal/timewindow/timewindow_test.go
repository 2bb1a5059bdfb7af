package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)

	for _, bad := range []string{"", "2025-3-10", "10.03.2025", "2025-02-30", "2025-03-10T10:00"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestParseTime(t *testing.T) {
	tod, err := ParseTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 30), tod)
	assert.Equal(t, "09:30", tod.String())

	for _, bad := range []string{"", "25:00", "9am", "12:60", "12-30", "9:00", "9:05", "09:5", "009:00"} {
		_, err := ParseTime(bad)
		assert.ErrorIs(t, err, ErrInvalidFormat, bad)
	}
}

func TestIsAtLeast(t *testing.T) {
	nine := NewTimeOfDay(9, 0)

	assert.True(t, IsAtLeast(DefaultMinWindow, nine, nine.Add(30)))
	assert.True(t, IsAtLeast(DefaultMinWindow, nine, nine.Add(90)))
	assert.False(t, IsAtLeast(DefaultMinWindow, nine, nine.Add(29)))
	assert.False(t, IsAtLeast(DefaultMinWindow, nine, nine))
	assert.False(t, IsAtLeast(0, nine.Add(10), nine))
}

func TestIsFutureOrToday(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	// 2025-03-10 05:00 UTC это ещё 9 марта в UTC-8
	clock := FixedClock{T: time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC).In(loc)}

	assert.True(t, IsFutureOrToday(clock, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)))
	assert.True(t, IsFutureOrToday(clock, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, IsFutureOrToday(clock, time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)))
}

func TestWeekRange(t *testing.T) {
	cases := []struct {
		date time.Time
		want time.Time
	}{
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, // понедельник
		{time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)}, // воскресенье
		{time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, end := WeekRange(tc.date)
		assert.Equal(t, tc.want, start, tc.date.String())
		assert.Equal(t, tc.want.AddDate(0, 0, 6), end)
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(time.Date(2024, 2, 17, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), end)
}

func TestCombine(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	at := Combine(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), NewTimeOfDay(14, 0), loc)
	assert.Equal(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), at.UTC())
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("", -480)
	require.NoError(t, err)
	assert.Equal(t, "UTC-08:00", loc.String())
	_, offset := time.Date(2025, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -8*3600, offset)

	_, err = LoadLocation("Not/AZone", 0)
	assert.Error(t, err)
}
