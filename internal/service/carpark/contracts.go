package carpark

import (
	"context"
	"time"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
	"github.com/m04kA/SMC-CarparkService/internal/service/tariff"
)

// AdhocTicketStore интерфейс хранилища разовых билетов
type AdhocTicketStore interface {
	CreateTicket(ctx context.Context, carparkID string) (*domain.AdhocTicket, error)
	FindTicketByBarcode(ctx context.Context, barcode string) (*domain.AdhocTicket, error)
	UpdateTicket(ctx context.Context, ticket *domain.AdhocTicket) error
}

// SeasonTicketStore интерфейс хранилища абонементов парковки
type SeasonTicketStore interface {
	RegisterTicket(ctx context.Context, ticket *domain.SeasonTicket) error
	DeregisterTicket(ctx context.Context, ticket *domain.SeasonTicket) error
	FindTicketByID(ctx context.Context, id string) (*domain.SeasonTicket, error)
	CountRegistered(ctx context.Context) (int, error)
	RecordTicketEntry(ctx context.Context, id string, at time.Time) error
	RecordTicketExit(ctx context.Context, id string, at time.Time) error
}

// Observer получает сигнал о каждом выезде по разовому билету
type Observer interface {
	NotifyCarparkEvent()
}

// FareCalculator интерфейс расчёта стоимости стоянки
type FareCalculator interface {
	Quote(entry, exit time.Time) (*tariff.Quote, error)
}

// BusinessCalendar интерфейс проверки рабочего времени
type BusinessCalendar interface {
	IsBusinessHours(t time.Time) bool
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
