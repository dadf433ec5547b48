package adhoc

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
)

// MemoryStore хранилище разовых билетов в памяти процесса.
// Отдаёт и принимает копии: изменения билета видны только после UpdateTicket, как и в Repository.
type MemoryStore struct {
	mu       sync.RWMutex
	tickets  map[string]*domain.AdhocTicket
	lastNo   int64
	barcodes func() string
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tickets:  make(map[string]*domain.AdhocTicket),
		barcodes: newBarcode,
	}
}

// CreateTicket выпускает новый неиспользованный билет для парковки
func (s *MemoryStore) CreateTicket(_ context.Context, carparkID string) (*domain.AdhocTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastNo++
	ticket := domain.NewAdhocTicket(s.lastNo, s.barcodes(), carparkID)
	s.tickets[ticket.Barcode] = ticket

	return cloneTicket(ticket), nil
}

// FindTicketByBarcode ищет билет по штрихкоду
func (s *MemoryStore) FindTicketByBarcode(_ context.Context, barcode string) (*domain.AdhocTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ticket, ok := s.tickets[barcode]
	if !ok {
		return nil, ErrTicketNotFound
	}
	return cloneTicket(ticket), nil
}

// UpdateTicket сохраняет переходы билета (въезд, оплата, выезд)
func (s *MemoryStore) UpdateTicket(_ context.Context, ticket *domain.AdhocTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tickets[ticket.Barcode]; !ok {
		return ErrTicketNotFound
	}
	s.tickets[ticket.Barcode] = cloneTicket(ticket)
	return nil
}

// cloneTicket поверхностная копия: переходы заменяют указатели на время, а не меняют их значения
func cloneTicket(t *domain.AdhocTicket) *domain.AdhocTicket {
	c := *t
	return &c
}

// Len количество выпущенных билетов
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}
