package tariff

import (
	"math"
	"time"
)

// dayInterval часть стоянки, попавшая в одни календарные сутки
type dayInterval struct {
	day  time.Time // полночь этих суток
	from time.Time
	to   time.Time
}

// splitByDay делит [entry, exit) по локальным полуночам.
// Количество суток считается через day-of-year, переходы через год и високосные годы учитываются в daysBetween.
// Пустые интервалы (например, выезд ровно в полночь) отбрасываются.
func splitByDay(entry, exit time.Time, loc *time.Location) []dayInterval {
	entry = entry.In(loc)
	exit = exit.In(loc)

	days := daysBetween(entry, exit)
	y, m, d := entry.Date()

	result := make([]dayInterval, 0, days+1)
	for i := 0; i <= days; i++ {
		dayStart := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
		dayEnd := time.Date(y, m, d+i+1, 0, 0, 0, 0, loc)

		from := laterOf(entry, dayStart)
		to := earlierOf(exit, dayEnd)
		if !to.After(from) {
			continue
		}

		result = append(result, dayInterval{day: dayStart, from: from, to: to})
	}

	return result
}

// daysBetween количество смен календарных суток между start и end (оба в одном часовом поясе)
//
// Примеры:
// - 2025-03-05 10:00 → 2025-03-05 23:00 = 0
// - 2023-12-31 22:00 → 2024-01-01 02:00 = 1
// - 2024-02-28 → 2024-03-01 = 2 (високосный год)
func daysBetween(start, end time.Time) int {
	year := start.Year()
	dayOfYear := start.YearDay()
	days := 0

	for year < end.Year() {
		days += daysInYear(year) - dayOfYear + 1
		year++
		dayOfYear = 1
	}

	return days + end.YearDay() - dayOfYear
}

// daysInYear 365 или 366
func daysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// roundMinutes округляет длительность до целых минут, 30 секунд и больше - вверх
func roundMinutes(d time.Duration) int {
	return int(d.Round(time.Minute) / time.Minute)
}

// roundCharge округляет сумму до 2 знаков после запятой
func roundCharge(v float64) float64 {
	return math.Round(v*100) / 100
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
