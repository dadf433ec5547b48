package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdhocTicket_Lifecycle(t *testing.T) {
	ticket := NewAdhocTicket(1, "A-1", "north")
	entry := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	assert.False(t, ticket.IsCurrent())
	assert.ErrorIs(t, ticket.Pay(entry, 1), ErrTicketNotEntered)

	require.NoError(t, ticket.Enter(entry))
	assert.True(t, ticket.IsCurrent())
	assert.ErrorIs(t, ticket.Enter(entry), ErrTicketAlreadyEntered)

	assert.ErrorIs(t, ticket.Exit(entry.Add(time.Hour)), ErrTicketNotPaid)

	require.NoError(t, ticket.Pay(entry.Add(2*time.Hour), 8))
	assert.True(t, ticket.IsPaid())
	assert.Equal(t, 8.0, ticket.Charge)
	assert.ErrorIs(t, ticket.Pay(entry.Add(2*time.Hour), 8), ErrTicketAlreadyPaid)

	require.NoError(t, ticket.Exit(entry.Add(2*time.Hour+5*time.Minute)))
	assert.False(t, ticket.IsCurrent())
	assert.ErrorIs(t, ticket.Exit(entry.Add(3*time.Hour)), ErrTicketAlreadyExited)
}

func TestSeasonTicket_IsValidAt_Inclusive(t *testing.T) {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC)
	ticket := NewSeasonTicket("S1", "north", start, end)

	assert.True(t, ticket.IsValidAt(start))
	assert.True(t, ticket.IsValidAt(end))
	assert.True(t, ticket.IsValidAt(start.Add(24*time.Hour)))
	assert.False(t, ticket.IsValidAt(start.Add(-time.Second)))
	assert.False(t, ticket.IsValidAt(end.Add(time.Second)))
}

func TestSeasonTicket_UsageCycle(t *testing.T) {
	ticket := NewSeasonTicket("S1", "north", time.Time{}, time.Now())
	at := time.Date(2025, time.March, 5, 8, 0, 0, 0, time.UTC)

	require.NoError(t, ticket.RecordEntry(at))
	assert.True(t, ticket.IsInUse())
	assert.True(t, ticket.CurrentUsage.IsOpen())
	assert.ErrorIs(t, ticket.RecordEntry(at), ErrSeasonTicketInUse)

	require.NoError(t, ticket.RecordExit(at.Add(8*time.Hour)))
	assert.False(t, ticket.IsInUse())
	assert.ErrorIs(t, ticket.RecordExit(at), ErrSeasonTicketNotInUse)

	require.NoError(t, ticket.RecordEntry(at.Add(24*time.Hour)))
	require.Len(t, ticket.Usages, 1)
	assert.False(t, ticket.Usages[0].IsOpen())
	assert.Equal(t, at.Add(8*time.Hour), *ticket.Usages[0].ExitAt)
}
