package monitoring

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-CarparkService/internal/service/carpark"
	"github.com/m04kA/SMC-CarparkService/pkg/metrics"
)

const (
	ticketTypeAdhoc  = "adhoc"
	ticketTypeSeason = "season"
)

// DefaultRefreshTimeout время на снятие снимка заполненности при оповещении
const DefaultRefreshTimeout = 2 * time.Second

// Carpark источник снимков заполненности
type Carpark interface {
	ID() string
	Snapshot(ctx context.Context) (*carpark.Snapshot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// OccupancyMonitor наблюдатель парковки: на каждый выезд обновляет метрики заполненности
type OccupancyMonitor struct {
	carpark Carpark
	metrics *metrics.Metrics
	logger  Logger
	timeout time.Duration

	mu      sync.Mutex
	wasFull bool
}

// NewOccupancyMonitor создает монитор. m может быть nil, тогда пишется только лог.
func NewOccupancyMonitor(c Carpark, m *metrics.Metrics, logger Logger) *OccupancyMonitor {
	return &OccupancyMonitor{
		carpark: c,
		metrics: m,
		logger:  logger,
		timeout: DefaultRefreshTimeout,
	}
}

// NotifyCarparkEvent вызывается парковкой после каждого выезда по разовому билету
func (m *OccupancyMonitor) NotifyCarparkEvent() {
	if m.metrics != nil {
		m.metrics.CarparkEventsTotal.WithLabelValues(m.carpark.ID()).Inc()
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if _, err := m.Refresh(ctx); err != nil {
		m.logger.Error("OccupancyMonitor: carpark=%s: refresh after exit failed: %v", m.carpark.ID(), err)
	}
}

// Refresh снимает снимок заполненности и выставляет метрики
func (m *OccupancyMonitor) Refresh(ctx context.Context) (*carpark.Snapshot, error) {
	snapshot, err := m.carpark.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if m.metrics != nil {
		m.metrics.CarparkOccupancy.WithLabelValues(snapshot.CarparkID, ticketTypeAdhoc).Set(float64(snapshot.AdhocOccupancy))
		m.metrics.CarparkOccupancy.WithLabelValues(snapshot.CarparkID, ticketTypeSeason).Set(float64(snapshot.SeasonRegistered))

		full := 0.0
		if snapshot.Full {
			full = 1
		}
		m.metrics.CarparkFull.WithLabelValues(snapshot.CarparkID).Set(full)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Пишем в лог только смену состояния "заполнена"
	if snapshot.Full != m.wasFull {
		if snapshot.Full {
			m.logger.Warn("OccupancyMonitor: carpark=%s is full, occupied=%d of %d",
				snapshot.CarparkID, snapshot.Occupied(), snapshot.Capacity)
		} else {
			m.logger.Info("OccupancyMonitor: carpark=%s has %d free spaces",
				snapshot.CarparkID, snapshot.Available())
		}
		m.wasFull = snapshot.Full
	}

	return snapshot, nil
}

// Run периодически обновляет метрики до отмены ctx.
// Регистрация абонементов не оповещает наблюдателей, поэтому нужен периодический опрос.
func (m *OccupancyMonitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := m.Refresh(ctx); err != nil && ctx.Err() == nil {
				m.logger.Warn("OccupancyMonitor: carpark=%s: periodic refresh failed: %v", m.carpark.ID(), err)
			}
		}
	}
}
