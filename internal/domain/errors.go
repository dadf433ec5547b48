package domain

import "errors"

var (
	// ErrTicketAlreadyEntered returned when an ad-hoc ticket is used for entry twice
	ErrTicketAlreadyEntered = errors.New("domain: ticket already used for entry")

	// ErrTicketNotEntered returned when paying for a ticket that has no entry time
	ErrTicketNotEntered = errors.New("domain: ticket has not been used for entry")

	// ErrTicketAlreadyPaid returned when a ticket is paid twice
	ErrTicketAlreadyPaid = errors.New("domain: ticket already paid")

	// ErrTicketNotPaid returned when exiting with an unpaid ticket
	ErrTicketNotPaid = errors.New("domain: ticket has not been paid")

	// ErrTicketAlreadyExited returned when a ticket is used for exit twice
	ErrTicketAlreadyExited = errors.New("domain: ticket already used for exit")

	// ErrSeasonTicketInUse returned when opening a second usage record
	ErrSeasonTicketInUse = errors.New("domain: season ticket already in use")

	// ErrSeasonTicketNotInUse returned when closing a usage record that is not open
	ErrSeasonTicketNotInUse = errors.New("domain: season ticket not in use")

	// ErrInvalidRateSchedule returned for an inconsistent rate schedule
	ErrInvalidRateSchedule = errors.New("domain: invalid rate schedule")
)
