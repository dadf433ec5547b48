package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	healthHandler "github.com/m04kA/SMC-CarparkService/internal/api/handlers/health"
	"github.com/m04kA/SMC-CarparkService/internal/api/middleware"
	"github.com/m04kA/SMC-CarparkService/internal/config"
	"github.com/m04kA/SMC-CarparkService/internal/infra/monitoring"
	adhocRepo "github.com/m04kA/SMC-CarparkService/internal/infra/storage/adhoc"
	"github.com/m04kA/SMC-CarparkService/internal/infra/storage/migrations"
	seasonRepo "github.com/m04kA/SMC-CarparkService/internal/infra/storage/season"
	carparkService "github.com/m04kA/SMC-CarparkService/internal/service/carpark"
	"github.com/m04kA/SMC-CarparkService/internal/service/tariff"
	"github.com/m04kA/SMC-CarparkService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CarparkService/pkg/logger"
	"github.com/m04kA/SMC-CarparkService/pkg/metrics"
)

const defaultConfigPath = "config.toml"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-CarparkService...")
	log.Info("Configuration loaded from %s", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Инициализируем хранилища билетов
	adhocStore, seasonStore, closeStorage, err := openStorage(ctx, cfg, metricsCollector, log)
	if err != nil {
		log.Fatal("Failed to initialize %s storage: %v", cfg.Storage.Driver, err)
	}
	defer closeStorage()

	// Тариф (расписание уже проверено в config.Load)
	schedule, err := cfg.Schedule()
	if err != nil {
		log.Fatal("Invalid tariff: %v", err)
	}
	calculator := tariff.NewCalculator(schedule)
	log.Info("Tariff: business rate=%.2f, out of hours rate=%.2f, business hours %s-%s %s",
		schedule.BusinessRate, schedule.OutOfHoursRate, schedule.OpenTime, schedule.CloseTime, schedule.Loc())

	// Инициализируем парковку
	carpark, err := carparkService.NewService(
		cfg.Carpark.Name,
		cfg.Carpark.Capacity,
		cfg.Carpark.SeasonCapacity,
		adhocStore,
		seasonStore,
		calculator,
		schedule,
		log,
	)
	if err != nil {
		log.Fatal("Failed to create carpark: %v", err)
	}

	// Монитор заполненности подписывается на выезды
	monitor := monitoring.NewOccupancyMonitor(carpark, metricsCollector, log)
	if err := carpark.Register(monitor); err != nil {
		log.Fatal("Failed to register occupancy monitor: %v", err)
	}

	snapshot, err := monitor.Refresh(ctx)
	if err != nil {
		log.Fatal("Failed to read carpark occupancy: %v", err)
	}
	log.Info("Carpark %s ready: capacity=%d, season capacity=%d, season tickets registered=%d",
		carpark.ID(), carpark.Capacity(), carpark.SeasonCapacity(), snapshot.SeasonRegistered)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware и endpoint (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	health := healthHandler.NewHandler(carpark, log)
	r.HandleFunc("/health", health.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return monitor.Run(gCtx, cfg.Carpark.RefreshPeriod())
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
		)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("Service stopped with error: %v", err)
		return
	}

	log.Info("Server stopped gracefully")
}

// openStorage создает хранилища билетов по storage.driver.
// Возвращает функцию освобождения ресурсов.
func openStorage(
	ctx context.Context,
	cfg *config.Config,
	metricsCollector *metrics.Metrics,
	log *logger.Logger,
) (carparkService.AdhocTicketStore, carparkService.SeasonTicketStore, func(), error) {
	if cfg.Storage.Driver == config.StorageMemory {
		log.Info("Using in-memory ticket storage")
		return adhocRepo.NewMemoryStore(), seasonRepo.NewMemoryStore(), func() {}, nil
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	log.Info("Database migrations applied")

	// Инициализируем репозитории (с метриками или без)
	var executor dbmetrics.DBExecutor = db
	stopMetricsCh := make(chan struct{})

	if metricsCollector != nil {
		executor = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	}

	closeFn := func() {
		close(stopMetricsCh)
		if err := db.Close(); err != nil {
			log.Error("Failed to close database: %v", err)
		}
	}

	return adhocRepo.NewRepository(executor, cfg.Carpark.Name), seasonRepo.NewRepository(executor, cfg.Carpark.Name), closeFn, nil
}
