package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", at(2025, time.March, 5, 10, 0, 0), at(2025, time.March, 5, 23, 0, 0), 0},
		{"next day", at(2025, time.March, 5, 23, 0, 0), at(2025, time.March, 6, 1, 0, 0), 1},
		{"year boundary", at(2023, time.December, 31, 22, 0, 0), at(2024, time.January, 1, 2, 0, 0), 1},
		{"leap february", at(2024, time.February, 28, 0, 0, 0), at(2024, time.March, 1, 0, 0, 0), 2},
		{"common february", at(2025, time.February, 28, 0, 0, 0), at(2025, time.March, 1, 0, 0, 0), 1},
		{"across a leap year", at(2023, time.December, 31, 0, 0, 0), at(2025, time.January, 1, 0, 0, 0), 367},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, daysBetween(tt.start, tt.end))
		})
	}
}

func TestDaysInYear(t *testing.T) {
	assert.Equal(t, 366, daysInYear(2024))
	assert.Equal(t, 365, daysInYear(2025))
	assert.Equal(t, 365, daysInYear(1900))
	assert.Equal(t, 366, daysInYear(2000))
}

func TestSplitByDay(t *testing.T) {
	entry := at(2025, time.March, 5, 20, 0, 0)
	exit := at(2025, time.March, 7, 3, 0, 0)

	days := splitByDay(entry, exit, time.UTC)

	assert.Len(t, days, 3)
	assert.Equal(t, entry, days[0].from)
	assert.Equal(t, at(2025, time.March, 6, 0, 0, 0), days[0].to)
	assert.Equal(t, at(2025, time.March, 6, 0, 0, 0), days[1].from)
	assert.Equal(t, at(2025, time.March, 7, 0, 0, 0), days[1].to)
	assert.Equal(t, exit, days[2].to)
	assert.Equal(t, at(2025, time.March, 7, 0, 0, 0), days[2].day)
}

func TestSplitByDay_DropsEmptyTail(t *testing.T) {
	days := splitByDay(at(2025, time.March, 5, 20, 0, 0), at(2025, time.March, 6, 0, 0, 0), time.UTC)
	assert.Len(t, days, 1)
}

func TestRoundMinutes(t *testing.T) {
	assert.Equal(t, 0, roundMinutes(29*time.Second))
	assert.Equal(t, 1, roundMinutes(30*time.Second))
	assert.Equal(t, 1, roundMinutes(89*time.Second))
	assert.Equal(t, 2, roundMinutes(90*time.Second))
	assert.Equal(t, 1440, roundMinutes(24*time.Hour))
}

func TestRoundCharge(t *testing.T) {
	assert.Equal(t, 0.67, roundCharge(2.0/3.0))
	assert.Equal(t, 0.03, roundCharge(1.0/30.0))
	assert.Equal(t, 1.5, roundCharge(1.5))
}
