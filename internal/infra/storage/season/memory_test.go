package season

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
)

func newTicket(id string) *domain.SeasonTicket {
	start := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	return domain.NewSeasonTicket(id, "north", start, start.AddDate(1, 0, 0))
}

func TestMemoryStore_RegisterAndCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.RegisterTicket(ctx, newTicket("S1")))
	require.NoError(t, store.RegisterTicket(ctx, newTicket("S2")))
	assert.ErrorIs(t, store.RegisterTicket(ctx, newTicket("S1")), ErrTicketExists)

	count, err := store.CountRegistered(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMemoryStore_Deregister(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	ticket := newTicket("S1")

	require.NoError(t, store.RegisterTicket(ctx, ticket))
	require.NoError(t, store.DeregisterTicket(ctx, ticket))
	require.NoError(t, store.DeregisterTicket(ctx, ticket))

	_, err := store.FindTicketByID(ctx, "S1")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestMemoryStore_UsageCycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.RegisterTicket(ctx, newTicket("S1")))

	entry := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordTicketEntry(ctx, "S1", entry))
	assert.ErrorIs(t, store.RecordTicketEntry(ctx, "S1", entry), ErrTicketInUse)

	require.NoError(t, store.RecordTicketExit(ctx, "S1", entry.Add(time.Hour)))
	assert.ErrorIs(t, store.RecordTicketExit(ctx, "S1", entry.Add(time.Hour)), ErrTicketNotInUse)

	require.NoError(t, store.RecordTicketEntry(ctx, "S1", entry.Add(2*time.Hour)))

	ticket, err := store.FindTicketByID(ctx, "S1")
	require.NoError(t, err)
	assert.True(t, ticket.IsInUse())
	assert.Len(t, ticket.Usages, 1)
}

func TestMemoryStore_UnknownTicket(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	assert.ErrorIs(t, store.RecordTicketEntry(ctx, "nope", now), ErrTicketNotFound)
	assert.ErrorIs(t, store.RecordTicketExit(ctx, "nope", now), ErrTicketNotFound)
}
