package domain

import "time"

// AdhocTicket is a pay-per-use ticket issued at the entry barrier
type AdhocTicket struct {
	TicketNo  int64
	Barcode   string
	CarparkID string
	EntryAt   *time.Time
	PaidAt    *time.Time
	ExitAt    *time.Time
	Charge    float64
}

// NewAdhocTicket creates an unused ticket
func NewAdhocTicket(ticketNo int64, barcode, carparkID string) *AdhocTicket {
	return &AdhocTicket{
		TicketNo:  ticketNo,
		Barcode:   barcode,
		CarparkID: carparkID,
	}
}

// Enter records the physical entry time
func (t *AdhocTicket) Enter(at time.Time) error {
	if t.EntryAt != nil {
		return ErrTicketAlreadyEntered
	}
	t.EntryAt = &at
	return nil
}

// Pay records payment of charge at the pay station
func (t *AdhocTicket) Pay(at time.Time, charge float64) error {
	if t.EntryAt == nil {
		return ErrTicketNotEntered
	}
	if t.PaidAt != nil {
		return ErrTicketAlreadyPaid
	}
	t.PaidAt = &at
	t.Charge = charge
	return nil
}

// Exit records the exit time; the ticket must be paid
func (t *AdhocTicket) Exit(at time.Time) error {
	if t.PaidAt == nil {
		return ErrTicketNotPaid
	}
	if t.ExitAt != nil {
		return ErrTicketAlreadyExited
	}
	t.ExitAt = &at
	return nil
}

// IsCurrent returns true while the car is inside: entered and not yet exited
func (t *AdhocTicket) IsCurrent() bool {
	return t.EntryAt != nil && t.ExitAt == nil
}

// IsPaid returns true once payment has been recorded
func (t *AdhocTicket) IsPaid() bool {
	return t.PaidAt != nil
}

// UsageRecord is one in-carpark stay of a season ticket holder
type UsageRecord struct {
	ID       int64
	TicketID string
	EntryAt  time.Time
	ExitAt   *time.Time
}

// IsOpen returns true while the exit time is unset
func (u *UsageRecord) IsOpen() bool {
	return u.ExitAt == nil
}

// Finalise closes the record
func (u *UsageRecord) Finalise(at time.Time) {
	u.ExitAt = &at
}

// SeasonTicket permits repeated entry within its validity window
type SeasonTicket struct {
	ID               string
	CarparkID        string
	StartValidPeriod time.Time
	EndValidPeriod   time.Time

	// CurrentUsage is set while a car using this ticket is inside
	CurrentUsage *UsageRecord
	// Usages closed usage records, oldest first
	Usages []*UsageRecord
}

// NewSeasonTicket creates a season ticket with no usage history
func NewSeasonTicket(id, carparkID string, start, end time.Time) *SeasonTicket {
	return &SeasonTicket{
		ID:               id,
		CarparkID:        carparkID,
		StartValidPeriod: start,
		EndValidPeriod:   end,
	}
}

// IsInUse returns true if a usage record is open
func (s *SeasonTicket) IsInUse() bool {
	return s.CurrentUsage != nil
}

// IsValidAt returns true if t lies within [StartValidPeriod, EndValidPeriod], both ends inclusive
func (s *SeasonTicket) IsValidAt(t time.Time) bool {
	return !t.Before(s.StartValidPeriod) && !t.After(s.EndValidPeriod)
}

// RecordEntry opens a new usage record
func (s *SeasonTicket) RecordEntry(at time.Time) error {
	if s.IsInUse() {
		return ErrSeasonTicketInUse
	}
	s.CurrentUsage = &UsageRecord{TicketID: s.ID, EntryAt: at}
	return nil
}

// RecordExit finalises the open usage record and moves it to the history
func (s *SeasonTicket) RecordExit(at time.Time) error {
	if !s.IsInUse() {
		return ErrSeasonTicketNotInUse
	}
	s.CurrentUsage.Finalise(at)
	s.Usages = append(s.Usages, s.CurrentUsage)
	s.CurrentUsage = nil
	return nil
}
