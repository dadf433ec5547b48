package types

import (
	"errors"
	"fmt"
	"time"
)

// TimeStringFormat формат времени суток "HH:MM"
const TimeStringFormat = "15:04"

// ErrInvalidTimeString возвращается, когда строка не соответствует формату HH:MM
var ErrInvalidTimeString = errors.New("invalid time string format")

// TimeString время суток в формате "HH:MM" (без даты и часового пояса)
type TimeString string

// NewTimeString создает TimeString из часов и минут переданного времени
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(TimeStringFormat))
}

// NewTimeStringFromString парсит строку "HH:MM"
func NewTimeStringFromString(s string) (TimeString, error) {
	ts := TimeString(s)
	if err := ts.Validate(); err != nil {
		return "", err
	}
	return ts, nil
}

// Validate проверяет формат
func (t TimeString) Validate() error {
	if _, err := time.Parse(TimeStringFormat, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsZero возвращает true, если время не задано
func (t TimeString) IsZero() bool {
	return t == ""
}

func (t TimeString) String() string {
	return string(t)
}

// Minutes возвращает количество минут от полуночи.
// Для невалидной строки возвращает 0.
func (t TimeString) Minutes() int {
	parsed, err := time.Parse(TimeStringFormat, string(t))
	if err != nil {
		return 0
	}
	return parsed.Hour()*60 + parsed.Minute()
}

// IsBefore строго раньше
func (t TimeString) IsBefore(other TimeString) bool {
	return t.Minutes() < other.Minutes()
}

// IsAfter строго позже
func (t TimeString) IsAfter(other TimeString) bool {
	return t.Minutes() > other.Minutes()
}

// OnDate возвращает момент времени t в календарный день day (в часовом поясе loc).
// Используется time.Date, поэтому переходы на летнее время нормализуются стандартной библиотекой.
func (t TimeString) OnDate(day time.Time, loc *time.Location) time.Time {
	minutes := t.Minutes()
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}
