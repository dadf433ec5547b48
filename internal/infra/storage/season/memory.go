package season

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
)

// MemoryStore хранилище абонементов одной парковки в памяти процесса
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.SeasonTicket
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets: make(map[string]*domain.SeasonTicket),
	}
}

// RegisterTicket добавляет абонемент
func (s *MemoryStore) RegisterTicket(_ context.Context, ticket *domain.SeasonTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[ticket.ID]; ok {
		return ErrTicketExists
	}
	s.tickets[ticket.ID] = ticket
	return nil
}

// DeregisterTicket удаляет абонемент. Отсутствующий абонемент не ошибка.
func (s *MemoryStore) DeregisterTicket(_ context.Context, ticket *domain.SeasonTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tickets, ticket.ID)
	return nil
}

// FindTicketByID ищет абонемент по идентификатору
func (s *MemoryStore) FindTicketByID(_ context.Context, id string) (*domain.SeasonTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}

// CountRegistered количество зарегистрированных абонементов
func (s *MemoryStore) CountRegistered(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets), nil
}

// RecordTicketEntry открывает запись использования абонемента
func (s *MemoryStore) RecordTicketEntry(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}

	if err := ticket.RecordEntry(at); err != nil {
		if errors.Is(err, domain.ErrSeasonTicketInUse) {
			return ErrTicketInUse
		}
		return err
	}
	return nil
}

// RecordTicketExit закрывает открытую запись использования абонемента
func (s *MemoryStore) RecordTicketExit(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}

	if err := ticket.RecordExit(at); err != nil {
		if errors.Is(err, domain.ErrSeasonTicketNotInUse) {
			return ErrTicketNotInUse
		}
		return err
	}
	return nil
}
