package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-CarparkService/pkg/types"
)

// RateSchedule holds the hourly rates and the business-hours window they switch on.
type RateSchedule struct {
	BusinessRate   float64          // per hour inside business hours on business days
	OutOfHoursRate float64          // per hour at all other times
	OpenTime       types.TimeString // start of business hours, local time
	CloseTime      types.TimeString // end of business hours, local time
	Location       *time.Location   // nil = time.Local
}

// DefaultRateSchedule returns the standard schedule in the given location
func DefaultRateSchedule(loc *time.Location) RateSchedule {
	return RateSchedule{
		BusinessRate:   DefaultBusinessRate,
		OutOfHoursRate: DefaultOutOfHoursRate,
		OpenTime:       DefaultOpenTime,
		CloseTime:      DefaultCloseTime,
		Location:       loc,
	}
}

// Validate checks rates are positive and the window is well formed
func (r RateSchedule) Validate() error {
	if r.BusinessRate < 0 || r.OutOfHoursRate < 0 {
		return fmt.Errorf("%w: rates must not be negative", ErrInvalidRateSchedule)
	}
	if err := r.OpenTime.Validate(); err != nil {
		return fmt.Errorf("%w: open time: %v", ErrInvalidRateSchedule, err)
	}
	if err := r.CloseTime.Validate(); err != nil {
		return fmt.Errorf("%w: close time: %v", ErrInvalidRateSchedule, err)
	}
	if !r.OpenTime.IsBefore(r.CloseTime) {
		return fmt.Errorf("%w: open time %s must be before close time %s",
			ErrInvalidRateSchedule, r.OpenTime, r.CloseTime)
	}
	return nil
}

// Loc returns the schedule's time zone
func (r RateSchedule) Loc() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}

// OpenAt returns the instant business hours start on the calendar day of t
func (r RateSchedule) OpenAt(t time.Time) time.Time {
	return r.OpenTime.OnDate(t, r.Loc())
}

// CloseAt returns the instant business hours end on the calendar day of t
func (r RateSchedule) CloseAt(t time.Time) time.Time {
	return r.CloseTime.OnDate(t, r.Loc())
}
