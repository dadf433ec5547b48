package carpark

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
	adhocRepo "github.com/m04kA/SMC-CarparkService/internal/infra/storage/adhoc"
	seasonRepo "github.com/m04kA/SMC-CarparkService/internal/infra/storage/season"
	"github.com/m04kA/SMC-CarparkService/internal/service/tariff"
)

// Service агрегат парковки: вместимость и заполненность, выдача и учёт билетов,
// проверка абонементов, оповещение наблюдателей о выездах.
// Один мьютекс сериализует все операции, читающие или меняющие заполненность.
type Service struct {
	mu sync.Mutex

	id             string
	capacity       int
	seasonCapacity int
	adhocCount     int
	observers      []Observer

	adhocStore   AdhocTicketStore
	seasonStore  SeasonTicketStore
	fares        FareCalculator
	calendar     BusinessCalendar
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает парковку name.
// Ошибки: ErrInvalidName, ErrInvalidCapacity.
func NewService(
	name string,
	capacity int,
	seasonCapacity int,
	adhocStore AdhocTicketStore,
	seasonStore SeasonTicketStore,
	fares FareCalculator,
	calendar BusinessCalendar,
	logger Logger,
) (*Service, error) {
	if err := validateCarpark(name, capacity, seasonCapacity); err != nil {
		return nil, err
	}

	return &Service{
		id:             name,
		capacity:       capacity,
		seasonCapacity: seasonCapacity,
		adhocStore:     adhocStore,
		seasonStore:    seasonStore,
		fares:          fares,
		calendar:       calendar,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}, nil
}

// ID идентификатор парковки
func (s *Service) ID() string {
	return s.id
}

// Capacity общая вместимость
func (s *Service) Capacity() int {
	return s.capacity
}

// SeasonCapacity сколько мест может быть отдано под абонементы
func (s *Service) SeasonCapacity() int {
	return s.seasonCapacity
}

// IsFull возвращает true, если adhocCount + зарегистрированные абонементы >= capacity
func (s *Service) IsFull(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isFull(ctx)
}

// isFull вызывается под s.mu
func (s *Service) isFull(ctx context.Context) (bool, error) {
	registered, err := s.countRegistered(ctx)
	if err != nil {
		return false, err
	}
	return s.adhocCount+registered >= s.capacity, nil
}

func (s *Service) countRegistered(ctx context.Context) (int, error) {
	registered, err := s.seasonStore.CountRegistered(ctx)
	if err != nil {
		s.logger.Error("carpark=%s: failed to count season tickets: %v", s.id, err)
		return 0, fmt.Errorf("%w: CountRegistered - season store error: %v", ErrInternal, err)
	}
	return registered, nil
}

// IssueAdhocTicket выпускает разовый билет. Заполненность не меняется: въезд учитывается отдельно.
// Ошибки: ErrCarparkFull.
func (s *Service) IssueAdhocTicket(ctx context.Context) (*domain.AdhocTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	full, err := s.isFull(ctx)
	if err != nil {
		return nil, err
	}
	if full {
		s.logger.Warn("IssueAdhocTicket: carpark=%s is full, capacity=%d", s.id, s.capacity)
		return nil, fmt.Errorf("%w: carpark=%s", ErrCarparkFull, s.id)
	}

	ticket, err := s.adhocStore.CreateTicket(ctx, s.id)
	if err != nil {
		s.logger.Error("IssueAdhocTicket: carpark=%s: adhoc store error: %v", s.id, err)
		return nil, fmt.Errorf("%w: IssueAdhocTicket - adhoc store error: %v", ErrInternal, err)
	}

	s.logger.Info("IssueAdhocTicket: carpark=%s, ticket_no=%d, barcode=%s", s.id, ticket.TicketNo, ticket.Barcode)
	return ticket, nil
}

// RecordAdhocTicketEntry увеличивает число машин по разовым билетам.
// Вместимость проверяется при выдаче билета, а не здесь.
func (s *Service) RecordAdhocTicketEntry() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adhocCount++
	s.logger.Info("RecordAdhocTicketEntry: carpark=%s, adhoc occupancy=%d", s.id, s.adhocCount)
}

// RecordAdhocTicketExit уменьшает число машин по разовым билетам и синхронно
// оповещает всех наблюдателей в порядке регистрации.
// Оповещение идёт после снятия блокировки, но до возврата из метода.
func (s *Service) RecordAdhocTicketExit() {
	observers := s.decrementAdhoc()
	s.notify(observers)
}

func (s *Service) decrementAdhoc() []Observer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adhocCount--
	s.logger.Info("RecordAdhocTicketExit: carpark=%s, adhoc occupancy=%d", s.id, s.adhocCount)

	return append([]Observer(nil), s.observers...)
}

// notify паника наблюдателя не перехватывается и уходит вызывающему
func (s *Service) notify(observers []Observer) {
	for _, o := range observers {
		o.NotifyCarparkEvent()
	}
}

// GetAdhocTicket ищет разовый билет по штрихкоду.
// Отсутствие билета (в том числе билет другой парковки) не ошибка: возвращается nil, nil.
func (s *Service) GetAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.adhocStore.FindTicketByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, adhocRepo.ErrTicketNotFound) {
			return nil, nil
		}
		s.logger.Error("GetAdhocTicket: barcode=%s: adhoc store error: %v", barcode, err)
		return nil, fmt.Errorf("%w: GetAdhocTicket - adhoc store error: %v", ErrInternal, err)
	}
	if ticket.CarparkID != s.id {
		return nil, nil
	}
	return ticket, nil
}

// CalculateAdhocTicketCharge стоимость стоянки с entry до текущего момента
func (s *Service) CalculateAdhocTicketCharge(entry time.Time) (float64, error) {
	quote, err := s.QuoteCharge(entry, s.timeProvider.Now())
	if err != nil {
		return 0, err
	}
	return quote.Total, nil
}

// QuoteCharge стоимость стоянки [entry, exit) с разбивкой по сегментам
func (s *Service) QuoteCharge(entry, exit time.Time) (*tariff.Quote, error) {
	quote, err := s.fares.Quote(entry, exit)
	if err != nil {
		if errors.Is(err, tariff.ErrInvalidInterval) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInterval, err)
		}
		return nil, fmt.Errorf("%w: QuoteCharge - fare calculator error: %v", ErrInternal, err)
	}
	return quote, nil
}

// EnterAdhocTicket отмечает въезд по билету и увеличивает заполненность
func (s *Service) EnterAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findAdhocTicket(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if err := ticket.Enter(s.timeProvider.Now()); err != nil {
		s.logger.Warn("EnterAdhocTicket: barcode=%s: %v", barcode, err)
		return nil, fmt.Errorf("%w: barcode=%s: %v", ErrTicketTransition, barcode, err)
	}

	if err := s.saveAdhocTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.adhocCount++
	s.logger.Info("EnterAdhocTicket: carpark=%s, barcode=%s, adhoc occupancy=%d", s.id, barcode, s.adhocCount)
	return ticket, nil
}

// PayAdhocTicket считает стоимость стоянки на текущий момент и отмечает оплату
func (s *Service) PayAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findAdhocTicket(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if ticket.EntryAt == nil {
		s.logger.Warn("PayAdhocTicket: barcode=%s has no entry time", barcode)
		return nil, fmt.Errorf("%w: barcode=%s: %v", ErrTicketTransition, barcode, domain.ErrTicketNotEntered)
	}

	now := s.timeProvider.Now()
	quote, err := s.QuoteCharge(*ticket.EntryAt, now)
	if err != nil {
		return nil, err
	}

	if err := ticket.Pay(now, quote.Total); err != nil {
		s.logger.Warn("PayAdhocTicket: barcode=%s: %v", barcode, err)
		return nil, fmt.Errorf("%w: barcode=%s: %v", ErrTicketTransition, barcode, err)
	}

	if err := s.saveAdhocTicket(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.Info("PayAdhocTicket: carpark=%s, barcode=%s, charge=%.2f, segments=%d",
		s.id, barcode, quote.Total, len(quote.Segments))
	return ticket, nil
}

// ExitAdhocTicket отмечает выезд по оплаченному билету, уменьшает заполненность
// и оповещает наблюдателей
func (s *Service) ExitAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	ticket, observers, err := s.exitAdhocTicket(ctx, barcode)
	if err != nil {
		return nil, err
	}

	s.notify(observers)
	return ticket, nil
}

func (s *Service) exitAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, []Observer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findAdhocTicket(ctx, barcode)
	if err != nil {
		return nil, nil, err
	}

	if err := ticket.Exit(s.timeProvider.Now()); err != nil {
		s.logger.Warn("ExitAdhocTicket: barcode=%s: %v", barcode, err)
		return nil, nil, fmt.Errorf("%w: barcode=%s: %v", ErrTicketTransition, barcode, err)
	}

	if err := s.saveAdhocTicket(ctx, ticket); err != nil {
		return nil, nil, err
	}

	s.adhocCount--
	s.logger.Info("ExitAdhocTicket: carpark=%s, barcode=%s, adhoc occupancy=%d", s.id, barcode, s.adhocCount)

	return ticket, append([]Observer(nil), s.observers...), nil
}

func (s *Service) findAdhocTicket(ctx context.Context, barcode string) (*domain.AdhocTicket, error) {
	ticket, err := s.adhocStore.FindTicketByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, adhocRepo.ErrTicketNotFound) {
			s.logger.Warn("carpark=%s: adhoc ticket barcode=%s not found", s.id, barcode)
			return nil, fmt.Errorf("%w: barcode=%s", ErrTicketNotFound, barcode)
		}
		s.logger.Error("carpark=%s: adhoc store error for barcode=%s: %v", s.id, barcode, err)
		return nil, fmt.Errorf("%w: FindTicketByBarcode - adhoc store error: %v", ErrInternal, err)
	}

	if ticket.CarparkID != s.id {
		s.logger.Warn("carpark=%s: adhoc ticket barcode=%s was issued for carpark=%s", s.id, barcode, ticket.CarparkID)
		return nil, fmt.Errorf("%w: barcode=%s carpark=%s", ErrCarparkMismatch, barcode, ticket.CarparkID)
	}
	return ticket, nil
}

func (s *Service) saveAdhocTicket(ctx context.Context, ticket *domain.AdhocTicket) error {
	if err := s.adhocStore.UpdateTicket(ctx, ticket); err != nil {
		s.logger.Error("carpark=%s: failed to save adhoc ticket barcode=%s: %v", s.id, ticket.Barcode, err)
		return fmt.Errorf("%w: UpdateTicket - adhoc store error: %v", ErrInternal, err)
	}
	return nil
}

// RegisterSeasonTicket регистрирует абонемент на парковке.
// Проверки по порядку: парковка абонемента, лимит абонементов и общая вместимость, дубликат.
func (s *Service) RegisterSeasonTicket(ctx context.Context, ticket *domain.SeasonTicket) error {
	if err := validateSeasonTicket(ticket); err != nil {
		return err
	}

	if ticket.CarparkID != s.id {
		s.logger.Warn("RegisterSeasonTicket: ticket=%s is for carpark=%s, not %s", ticket.ID, ticket.CarparkID, s.id)
		return fmt.Errorf("%w: ticket=%s carpark=%s", ErrCarparkMismatch, ticket.ID, ticket.CarparkID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	registered, err := s.countRegistered(ctx)
	if err != nil {
		return err
	}

	if registered >= s.seasonCapacity || s.adhocCount+registered+1 > s.capacity {
		s.logger.Warn("RegisterSeasonTicket: carpark=%s, registered=%d, season capacity=%d, adhoc=%d, capacity=%d",
			s.id, registered, s.seasonCapacity, s.adhocCount, s.capacity)
		return fmt.Errorf("%w: carpark=%s, registered=%d", ErrCapacityExceeded, s.id, registered)
	}

	if _, err := s.seasonStore.FindTicketByID(ctx, ticket.ID); err == nil {
		s.logger.Warn("RegisterSeasonTicket: ticket=%s already registered", ticket.ID)
		return fmt.Errorf("%w: ticket=%s", ErrAlreadyRegistered, ticket.ID)
	} else if !errors.Is(err, seasonRepo.ErrTicketNotFound) {
		s.logger.Error("RegisterSeasonTicket: ticket=%s: season store error: %v", ticket.ID, err)
		return fmt.Errorf("%w: RegisterSeasonTicket - season store error: %v", ErrInternal, err)
	}

	if err := s.seasonStore.RegisterTicket(ctx, ticket); err != nil {
		if errors.Is(err, seasonRepo.ErrTicketExists) {
			return fmt.Errorf("%w: ticket=%s", ErrAlreadyRegistered, ticket.ID)
		}
		s.logger.Error("RegisterSeasonTicket: ticket=%s: season store error: %v", ticket.ID, err)
		return fmt.Errorf("%w: RegisterSeasonTicket - season store error: %v", ErrInternal, err)
	}

	s.logger.Info("RegisterSeasonTicket: carpark=%s, ticket=%s, valid %s - %s", s.id, ticket.ID,
		ticket.StartValidPeriod.Format(domain.DateTimeFormat), ticket.EndValidPeriod.Format(domain.DateTimeFormat))
	return nil
}

// DeregisterSeasonTicket снимает абонемент с парковки. Незарегистрированный абонемент не ошибка.
func (s *Service) DeregisterSeasonTicket(ctx context.Context, ticket *domain.SeasonTicket) error {
	if ticket == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidTicket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.seasonStore.DeregisterTicket(ctx, ticket); err != nil {
		s.logger.Error("DeregisterSeasonTicket: ticket=%s: season store error: %v", ticket.ID, err)
		return fmt.Errorf("%w: DeregisterSeasonTicket - season store error: %v", ErrInternal, err)
	}

	s.logger.Info("DeregisterSeasonTicket: carpark=%s, ticket=%s", s.id, ticket.ID)
	return nil
}

// IsSeasonTicketValid true, если абонемент зарегистрирован, текущий момент внутри
// периода действия (границы включительно) и сейчас рабочее время.
// Незарегистрированный абонемент даёт false без ошибки.
func (s *Service) IsSeasonTicketValid(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.seasonStore.FindTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, seasonRepo.ErrTicketNotFound) {
			return false, nil
		}
		s.logger.Error("IsSeasonTicketValid: ticket=%s: season store error: %v", id, err)
		return false, fmt.Errorf("%w: IsSeasonTicketValid - season store error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	return ticket.IsValidAt(now) && s.calendar.IsBusinessHours(now), nil
}

// IsSeasonTicketInUse true, если у абонемента есть открытая запись использования.
// Ошибки: ErrTicketNotFound.
func (s *Service) IsSeasonTicketInUse(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findSeasonTicket(ctx, id)
	if err != nil {
		return false, err
	}
	return ticket.IsInUse(), nil
}

// RecordSeasonTicketEntry открывает запись использования абонемента.
// Ошибки: ErrTicketNotFound, ErrAlreadyInUse.
func (s *Service) RecordSeasonTicketEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findSeasonTicket(ctx, id)
	if err != nil {
		return err
	}

	if ticket.IsInUse() {
		s.logger.Warn("RecordSeasonTicketEntry: ticket=%s already in use", id)
		return fmt.Errorf("%w: ticket=%s", ErrAlreadyInUse, id)
	}

	if err := s.seasonStore.RecordTicketEntry(ctx, id, s.timeProvider.Now()); err != nil {
		return s.mapSeasonStoreError("RecordSeasonTicketEntry", id, err)
	}

	s.logger.Info("RecordSeasonTicketEntry: carpark=%s, ticket=%s", s.id, id)
	return nil
}

// RecordSeasonTicketExit закрывает открытую запись использования абонемента.
// Ошибки: ErrTicketNotFound, ErrNotInUse.
func (s *Service) RecordSeasonTicketExit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.findSeasonTicket(ctx, id)
	if err != nil {
		return err
	}

	if !ticket.IsInUse() {
		s.logger.Warn("RecordSeasonTicketExit: ticket=%s not in use", id)
		return fmt.Errorf("%w: ticket=%s", ErrNotInUse, id)
	}

	if err := s.seasonStore.RecordTicketExit(ctx, id, s.timeProvider.Now()); err != nil {
		return s.mapSeasonStoreError("RecordSeasonTicketExit", id, err)
	}

	s.logger.Info("RecordSeasonTicketExit: carpark=%s, ticket=%s", s.id, id)
	return nil
}

func (s *Service) findSeasonTicket(ctx context.Context, id string) (*domain.SeasonTicket, error) {
	ticket, err := s.seasonStore.FindTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, seasonRepo.ErrTicketNotFound) {
			s.logger.Warn("carpark=%s: season ticket=%s not found", s.id, id)
			return nil, fmt.Errorf("%w: ticket=%s", ErrTicketNotFound, id)
		}
		s.logger.Error("carpark=%s: season store error for ticket=%s: %v", s.id, id, err)
		return nil, fmt.Errorf("%w: FindTicketByID - season store error: %v", ErrInternal, err)
	}
	return ticket, nil
}

func (s *Service) mapSeasonStoreError(op, id string, err error) error {
	switch {
	case errors.Is(err, seasonRepo.ErrTicketNotFound):
		return fmt.Errorf("%w: ticket=%s", ErrTicketNotFound, id)
	case errors.Is(err, seasonRepo.ErrTicketInUse):
		return fmt.Errorf("%w: ticket=%s", ErrAlreadyInUse, id)
	case errors.Is(err, seasonRepo.ErrTicketNotInUse):
		return fmt.Errorf("%w: ticket=%s", ErrNotInUse, id)
	}
	s.logger.Error("%s: ticket=%s: season store error: %v", op, id, err)
	return fmt.Errorf("%w: %s - season store error: %v", ErrInternal, op, err)
}

// Register добавляет наблюдателя. Повторная регистрация того же наблюдателя ничего не делает.
// Наблюдатели сравниваются по идентичности, поэтому несравнимые значения
// (функции, структуры со срезами) отклоняются с ErrInvalidObserver.
func (s *Service) Register(o Observer) error {
	if !isComparableObserver(o) {
		return fmt.Errorf("%w: %T", ErrInvalidObserver, o)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.observers {
		if existing == o {
			return nil
		}
	}
	s.observers = append(s.observers, o)
	return nil
}

// Deregister удаляет наблюдателя, если он зарегистрирован
func (s *Service) Deregister(o Observer) {
	if !isComparableObserver(o) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.observers {
		if existing == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func isComparableObserver(o Observer) bool {
	if o == nil {
		return false
	}
	return reflect.TypeOf(o).Comparable()
}

// Snapshot текущая заполненность парковки
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registered, err := s.countRegistered(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		CarparkID:        s.id,
		Capacity:         s.capacity,
		SeasonCapacity:   s.seasonCapacity,
		AdhocOccupancy:   s.adhocCount,
		SeasonRegistered: registered,
		Full:             s.adhocCount+registered >= s.capacity,
	}, nil
}
