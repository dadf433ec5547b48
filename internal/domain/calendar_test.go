package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-03-05 is a Wednesday
func wednesday(hour, min, sec int) time.Time {
	return time.Date(2025, time.March, 5, hour, min, sec, 0, time.UTC)
}

func TestIsBusinessHours_Boundaries(t *testing.T) {
	schedule := DefaultRateSchedule(time.UTC)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"exactly open", wednesday(7, 0, 0), false},
		{"one second after open", wednesday(7, 0, 1), true},
		{"midday", wednesday(12, 30, 0), true},
		{"one second before close", wednesday(18, 59, 59), true},
		{"exactly close", wednesday(19, 0, 0), false},
		{"before open", wednesday(6, 59, 59), false},
		{"late evening", wednesday(23, 0, 0), false},
		{"saturday midday", time.Date(2025, time.March, 8, 12, 0, 0, 0, time.UTC), false},
		{"sunday midday", time.Date(2025, time.March, 9, 12, 0, 0, 0, time.UTC), false},
		{"monday midday", time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), true},
		{"friday midday", time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schedule.IsBusinessHours(tt.at))
		})
	}
}

func TestIsBusinessDay_UsesScheduleZone(t *testing.T) {
	// Friday 23:30 UTC is already Saturday in UTC+2
	loc := time.FixedZone("UTC+2", 2*60*60)
	schedule := DefaultRateSchedule(loc)

	fridayLateUTC := time.Date(2025, time.March, 7, 23, 30, 0, 0, time.UTC)

	assert.False(t, schedule.IsBusinessDay(fridayLateUTC))
	assert.True(t, DefaultRateSchedule(time.UTC).IsBusinessDay(fridayLateUTC))
}

func TestRateSchedule_Validate(t *testing.T) {
	assert.NoError(t, DefaultRateSchedule(time.UTC).Validate())

	inverted := DefaultRateSchedule(time.UTC)
	inverted.OpenTime, inverted.CloseTime = "19:00", "07:00"
	assert.ErrorIs(t, inverted.Validate(), ErrInvalidRateSchedule)

	negative := DefaultRateSchedule(time.UTC)
	negative.BusinessRate = -1
	assert.ErrorIs(t, negative.Validate(), ErrInvalidRateSchedule)

	badTime := DefaultRateSchedule(time.UTC)
	badTime.OpenTime = "7"
	assert.ErrorIs(t, badTime.Validate(), ErrInvalidRateSchedule)
}

func TestRateSchedule_NilLocationIsLocal(t *testing.T) {
	schedule := DefaultRateSchedule(nil)
	assert.Equal(t, time.Local, schedule.Loc())
}
