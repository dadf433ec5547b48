package season

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
	"github.com/m04kA/SMC-CarparkService/pkg/psqlbuilder"
)

const (
	tableTickets = "season_tickets"
	tableUsages  = "usage_records"
)

// Коды ошибок PostgreSQL
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository хранилище абонементов одной парковки в PostgreSQL.
// Все запросы ограничены carpark_id парковки.
type Repository struct {
	db        DBExecutor
	carparkID string
}

// NewRepository создает новый экземпляр репозитория абонементов парковки carparkID
func NewRepository(db DBExecutor, carparkID string) *Repository {
	return &Repository{
		db:        db,
		carparkID: carparkID,
	}
}

// RegisterTicket сохраняет абонемент
func (r *Repository) RegisterTicket(ctx context.Context, ticket *domain.SeasonTicket) error {
	query, args, err := psqlbuilder.Insert(tableTickets).
		Columns("id", "carpark_id", "start_valid", "end_valid").
		Values(ticket.ID, r.carparkID, ticket.StartValidPeriod, ticket.EndValidPeriod).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RegisterTicket - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return ErrTicketExists
		}
		return fmt.Errorf("%w: RegisterTicket - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// DeregisterTicket удаляет абонемент вместе с историей использования (ON DELETE CASCADE).
// Отсутствующий абонемент не ошибка.
func (r *Repository) DeregisterTicket(ctx context.Context, ticket *domain.SeasonTicket) error {
	query, args, err := psqlbuilder.Delete(tableTickets).
		Where(squirrel.Eq{"id": ticket.ID}).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeregisterTicket - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeregisterTicket - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// FindTicketByID получает абонемент с открытой записью и историей использования
func (r *Repository) FindTicketByID(ctx context.Context, id string) (*domain.SeasonTicket, error) {
	query, args, err := psqlbuilder.Select(
		"id",
		"carpark_id",
		"start_valid",
		"end_valid",
	).
		From(tableTickets).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindTicketByID - build select query: %v", ErrBuildQuery, err)
	}

	var ticket domain.SeasonTicket
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.CarparkID,
		&ticket.StartValidPeriod,
		&ticket.EndValidPeriod,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindTicketByID - scan ticket: %v", ErrScanRow, err)
	}

	if err := r.loadUsages(ctx, &ticket); err != nil {
		return nil, err
	}

	return &ticket, nil
}

// loadUsages заполняет CurrentUsage и Usages абонемента
func (r *Repository) loadUsages(ctx context.Context, ticket *domain.SeasonTicket) error {
	query, args, err := psqlbuilder.Select(
		"id",
		"ticket_id",
		"entry_at",
		"exit_at",
	).
		From(tableUsages).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		Where(squirrel.Eq{"ticket_id": ticket.ID}).
		OrderBy("entry_at ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadUsages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadUsages - execute select: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			usage  domain.UsageRecord
			exitAt sql.NullTime
		)
		if err := rows.Scan(&usage.ID, &usage.TicketID, &usage.EntryAt, &exitAt); err != nil {
			return fmt.Errorf("%w: loadUsages - scan usage record: %v", ErrScanRow, err)
		}

		if !exitAt.Valid {
			ticket.CurrentUsage = &usage
			continue
		}
		usage.Finalise(exitAt.Time)
		ticket.Usages = append(ticket.Usages, &usage)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadUsages - iterate rows: %v", ErrScanRow, err)
	}

	return nil
}

// CountRegistered количество абонементов парковки
func (r *Repository) CountRegistered(ctx context.Context) (int, error) {
	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableTickets).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountRegistered - build count query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountRegistered - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// RecordTicketEntry открывает запись использования.
// Вторую открытую запись отсекает частичный уникальный индекс usage_records_open_idx.
func (r *Repository) RecordTicketEntry(ctx context.Context, id string, at time.Time) error {
	query, args, err := psqlbuilder.Insert(tableUsages).
		Columns("carpark_id", "ticket_id", "entry_at").
		Values(r.carparkID, id, at).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordTicketEntry - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		switch {
		case isPgError(err, pgUniqueViolation):
			return ErrTicketInUse
		case isPgError(err, pgForeignKeyViolation):
			return ErrTicketNotFound
		}
		return fmt.Errorf("%w: RecordTicketEntry - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// RecordTicketExit закрывает открытую запись использования
func (r *Repository) RecordTicketExit(ctx context.Context, id string, at time.Time) error {
	query, args, err := psqlbuilder.Update(tableUsages).
		Set("exit_at", at).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		Where(squirrel.Eq{"ticket_id": id}).
		Where("exit_at IS NULL").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RecordTicketExit - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RecordTicketExit - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RecordTicketExit - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Открытой записи нет: различаем отсутствие абонемента и "не используется"
	exists, err := r.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTicketNotFound
	}
	return ErrTicketNotInUse
}

func (r *Repository) exists(ctx context.Context, id string) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From(tableTickets).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}

	return true, nil
}

func isPgError(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
