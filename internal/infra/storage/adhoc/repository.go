package adhoc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
	"github.com/m04kA/SMC-CarparkService/pkg/psqlbuilder"
)

const tableTickets = "adhoc_tickets"

// Repository хранилище разовых билетов одной парковки в PostgreSQL.
// Поиск и обновление видят только билеты carparkID.
type Repository struct {
	db        DBExecutor
	carparkID string
	barcodes  func() string
}

// NewRepository создает новый экземпляр репозитория разовых билетов
func NewRepository(db DBExecutor, carparkID string) *Repository {
	return &Repository{
		db:        db,
		carparkID: carparkID,
		barcodes:  newBarcode,
	}
}

// CreateTicket выпускает новый билет. Номер билета выдаёт последовательность БД.
func (r *Repository) CreateTicket(ctx context.Context, carparkID string) (*domain.AdhocTicket, error) {
	barcode := r.barcodes()

	query, args, err := psqlbuilder.Insert(tableTickets).
		Columns("barcode", "carpark_id").
		Values(barcode, carparkID).
		Suffix("RETURNING ticket_no").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateTicket - build insert query: %v", ErrBuildQuery, err)
	}

	var ticketNo int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&ticketNo); err != nil {
		return nil, fmt.Errorf("%w: CreateTicket - execute insert: %v", ErrExecQuery, err)
	}

	return domain.NewAdhocTicket(ticketNo, barcode, carparkID), nil
}

// FindTicketByBarcode получает билет по штрихкоду
func (r *Repository) FindTicketByBarcode(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	query, args, err := psqlbuilder.Select(
		"ticket_no",
		"barcode",
		"carpark_id",
		"entry_at",
		"paid_at",
		"exit_at",
		"charge",
	).
		From(tableTickets).
		Where(squirrel.Eq{"barcode": barcode}).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FindTicketByBarcode - build select query: %v", ErrBuildQuery, err)
	}

	var (
		ticket                  domain.AdhocTicket
		entryAt, paidAt, exitAt sql.NullTime
		charge                  sql.NullFloat64
	)

	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&ticket.TicketNo,
		&ticket.Barcode,
		&ticket.CarparkID,
		&entryAt,
		&paidAt,
		&exitAt,
		&charge,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: FindTicketByBarcode - scan ticket: %v", ErrScanRow, err)
	}

	ticket.EntryAt = nullTimePtr(entryAt)
	ticket.PaidAt = nullTimePtr(paidAt)
	ticket.ExitAt = nullTimePtr(exitAt)
	ticket.Charge = charge.Float64

	return &ticket, nil
}

// UpdateTicket сохраняет отметки въезда, оплаты и выезда билета
func (r *Repository) UpdateTicket(ctx context.Context, ticket *domain.AdhocTicket) error {
	query, args, err := psqlbuilder.Update(tableTickets).
		Set("entry_at", ticket.EntryAt).
		Set("paid_at", ticket.PaidAt).
		Set("exit_at", ticket.ExitAt).
		Set("charge", ticket.Charge).
		Where(squirrel.Eq{"barcode": ticket.Barcode}).
		Where(squirrel.Eq{"carpark_id": r.carparkID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTicket - build update query: %v", ErrBuildQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTicket - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTicket - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTicketNotFound
	}

	return nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
