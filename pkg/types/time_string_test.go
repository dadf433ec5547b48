package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("07:30")
	require.NoError(t, err)
	assert.Equal(t, 7*60+30, ts.Minutes())
	assert.Equal(t, "07:30", ts.String())

	_, err = NewTimeStringFromString("7am")
	assert.ErrorIs(t, err, ErrInvalidTimeString)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	open := TimeString("07:00")
	closing := TimeString("19:00")

	assert.True(t, open.IsBefore(closing))
	assert.True(t, closing.IsAfter(open))
	assert.False(t, open.IsBefore(open))
	assert.False(t, open.IsAfter(open))
	assert.True(t, TimeString("").IsZero())
}

func TestTimeString_OnDate(t *testing.T) {
	loc := time.UTC
	day := time.Date(2024, time.February, 29, 15, 45, 10, 0, loc)

	got := TimeString("19:00").OnDate(day, loc)

	assert.Equal(t, time.Date(2024, time.February, 29, 19, 0, 0, 0, loc), got)
}

func TestNewTimeString(t *testing.T) {
	now := time.Date(2025, time.March, 3, 9, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("09:05"), NewTimeString(now))
}
