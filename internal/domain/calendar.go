package domain

import "time"

// IsBusinessDay returns true if t falls on Monday through Friday in the schedule's zone
func (r RateSchedule) IsBusinessDay(t time.Time) bool {
	switch t.In(r.Loc()).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// IsBusinessHours returns true if t is on a business day and strictly between
// the open and close times. The boundary instants themselves are out of hours.
func (r RateSchedule) IsBusinessHours(t time.Time) bool {
	if !r.IsBusinessDay(t) {
		return false
	}
	return t.After(r.OpenAt(t)) && t.Before(r.CloseAt(t))
}
