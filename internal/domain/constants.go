package domain

import "github.com/m04kA/SMC-CarparkService/pkg/types"

// Default tariff values
const (
	DefaultBusinessRate   = 4.0 // per hour, 07:00-19:00 Mon-Fri
	DefaultOutOfHoursRate = 2.0 // per hour, all other times
)

// Default business-hours window
const (
	DefaultOpenTime  types.TimeString = "07:00"
	DefaultCloseTime types.TimeString = "19:00"
)

// MinCapacityPerSeasonSpace total spaces required per season space:
// season spaces may take at most 10% of the carpark.
const MinCapacityPerSeasonSpace = 10

// DateTimeFormat is the timestamp layout used in log lines
const DateTimeFormat = "2006-01-02 15:04:05"
