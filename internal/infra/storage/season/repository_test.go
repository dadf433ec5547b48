package season

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(db, "north"), mock
}

func TestRepository_RegisterTicket(t *testing.T) {
	repo, mock := newMockRepository(t)
	ticket := newTicket("S1")

	mock.ExpectExec("INSERT INTO season_tickets \\(id,carpark_id,start_valid,end_valid\\)").
		WithArgs("S1", "north", ticket.StartValidPeriod, ticket.EndValidPeriod).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RegisterTicket(context.Background(), ticket))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RegisterTicket_Duplicate(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("INSERT INTO season_tickets").WillReturnError(&pq.Error{Code: pgUniqueViolation})

	err := repo.RegisterTicket(context.Background(), newTicket("S1"))
	assert.ErrorIs(t, err, ErrTicketExists)
}

// Один и тот же идентификатор абонемента на двух парковках: каждая пишет свой carpark_id
func TestRepository_SameTicketIDOnTwoCarparks(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	north, south := NewRepository(db, "north"), NewRepository(db, "south")
	ticket := newTicket("S1")
	at := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	for _, carpark := range []string{"north", "south"} {
		mock.ExpectExec("INSERT INTO season_tickets").
			WithArgs("S1", carpark, ticket.StartValidPeriod, ticket.EndValidPeriod).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectExec("INSERT INTO usage_records").
		WithArgs("south", "S1", at).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, north.RegisterTicket(context.Background(), ticket))
	require.NoError(t, south.RegisterTicket(context.Background(), ticket))
	require.NoError(t, south.RecordTicketEntry(context.Background(), "S1", at))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeregisterTicket(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM season_tickets WHERE id = \\$1 AND carpark_id = \\$2").
		WithArgs("S1", "north").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeregisterTicket(context.Background(), newTicket("S1")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindTicketByID(t *testing.T) {
	repo, mock := newMockRepository(t)
	ticket := newTicket("S1")
	entry := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, carpark_id, start_valid, end_valid FROM season_tickets WHERE id = \\$1 AND carpark_id = \\$2").
		WithArgs("S1", "north").
		WillReturnRows(sqlmock.NewRows([]string{"id", "carpark_id", "start_valid", "end_valid"}).
			AddRow("S1", "north", ticket.StartValidPeriod, ticket.EndValidPeriod))

	mock.ExpectQuery("SELECT id, ticket_id, entry_at, exit_at FROM usage_records WHERE carpark_id = \\$1 AND ticket_id = \\$2 ORDER BY entry_at ASC").
		WithArgs("north", "S1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ticket_id", "entry_at", "exit_at"}).
			AddRow(int64(1), "S1", entry, entry.Add(time.Hour)).
			AddRow(int64(2), "S1", entry.Add(24*time.Hour), nil))

	found, err := repo.FindTicketByID(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, "north", found.CarparkID)
	require.Len(t, found.Usages, 1)
	assert.Equal(t, entry.Add(time.Hour), *found.Usages[0].ExitAt)
	require.True(t, found.IsInUse())
	assert.Equal(t, int64(2), found.CurrentUsage.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindTicketByID_NotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM season_tickets").
		WillReturnRows(sqlmock.NewRows([]string{"id", "carpark_id", "start_valid", "end_valid"}))

	_, err := repo.FindTicketByID(context.Background(), "S1")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestRepository_CountRegistered(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM season_tickets WHERE carpark_id = \\$1").
		WithArgs("north").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountRegistered(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRepository_RecordTicketEntry(t *testing.T) {
	at := time.Date(2025, time.March, 5, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		execErr error
		wantErr error
	}{
		{"opens record", nil, nil},
		{"open record exists", &pq.Error{Code: pgUniqueViolation}, ErrTicketInUse},
		{"unknown ticket", &pq.Error{Code: pgForeignKeyViolation}, ErrTicketNotFound},
		{"driver failure", errors.New("connection reset"), ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)

			exp := mock.ExpectExec("INSERT INTO usage_records \\(carpark_id,ticket_id,entry_at\\)").WithArgs("north", "S1", at)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(sqlmock.NewResult(1, 1))
			}

			err := repo.RecordTicketEntry(context.Background(), "S1", at)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRepository_RecordTicketExit(t *testing.T) {
	at := time.Date(2025, time.March, 5, 11, 0, 0, 0, time.UTC)

	t.Run("closes record", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec("UPDATE usage_records SET exit_at = \\$1 WHERE carpark_id = \\$2 AND ticket_id = \\$3 AND exit_at IS NULL").
			WithArgs(at, "north", "S1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.RecordTicketExit(context.Background(), "S1", at))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not in use", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec("UPDATE usage_records").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM season_tickets").
			WithArgs("S1", "north").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		assert.ErrorIs(t, repo.RecordTicketExit(context.Background(), "S1", at), ErrTicketNotInUse)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectExec("UPDATE usage_records").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT 1 FROM season_tickets").
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		assert.ErrorIs(t, repo.RecordTicketExit(context.Background(), "S1", at), ErrTicketNotFound)
	})
}
