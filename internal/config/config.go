package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
	"github.com/m04kA/SMC-CarparkService/pkg/types"
)

// Драйверы хранилища билетов
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не читается
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrReadEnv возвращается при некорректных переменных окружения
	ErrReadEnv = errors.New("config: failed to read environment")

	// ErrInvalidConfig возвращается, если конфигурация не прошла валидацию
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Carpark  CarparkConfig  `toml:"carpark"`
	Tariff   TariffConfig   `toml:"tariff"`
}

// ServerConfig HTTP сервер служебных эндпоинтов (/health, /metrics). Таймауты в секундах.
type ServerConfig struct {
	HTTPPort        int `toml:"http_port" env:"SERVER_HTTP_PORT" env-default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     int `toml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"10" validate:"min=1"`
	WriteTimeout    int `toml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"10" validate:"min=1"`
	IdleTimeout     int `toml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60" validate:"min=1"`
	ShutdownTimeout int `toml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15" validate:"min=1"`
}

type LogsConfig struct {
	File  string `toml:"file" env:"LOGS_FILE"`
	Level string `toml:"level" env:"LOGS_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" env:"METRICS_ENABLED"`
	ServiceName string `toml:"service_name" env:"METRICS_SERVICE_NAME" env-default:"carpark_service" validate:"required"`
	Path        string `toml:"path" env:"METRICS_PATH" env-default:"/metrics" validate:"startswith=/"`
}

// DatabaseConfig используется только при storage.driver = "postgres"
type DatabaseConfig struct {
	Host            string `toml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            int    `toml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `toml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `toml:"password" env:"DB_PASSWORD"`
	DBName          string `toml:"dbname" env:"DB_NAME" env-default:"carpark"`
	SSLMode         string `toml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns    int    `toml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int    `toml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"300"`
}

type StorageConfig struct {
	Driver string `toml:"driver" env:"STORAGE_DRIVER" env-default:"memory" validate:"oneof=memory postgres"`
}

type CarparkConfig struct {
	Name           string `toml:"name" env:"CARPARK_NAME" validate:"required"`
	Capacity       int    `toml:"capacity" env:"CARPARK_CAPACITY" validate:"gt=0"`
	SeasonCapacity int    `toml:"season_capacity" env:"CARPARK_SEASON_CAPACITY" validate:"gte=0"`
	// Период опроса заполненности для метрик, в секундах
	RefreshInterval int `toml:"refresh_interval" env:"CARPARK_REFRESH_INTERVAL" env-default:"15" validate:"min=1"`
}

type TariffConfig struct {
	BusinessRate   float64 `toml:"business_rate" env:"TARIFF_BUSINESS_RATE" env-default:"4.0" validate:"gte=0"`
	OutOfHoursRate float64 `toml:"out_of_hours_rate" env:"TARIFF_OUT_OF_HOURS_RATE" env-default:"2.0" validate:"gte=0"`
	OpenTime       string  `toml:"open_time" env:"TARIFF_OPEN_TIME" env-default:"07:00"`
	CloseTime      string  `toml:"close_time" env:"TARIFF_CLOSE_TIME" env-default:"19:00"`
	Timezone       string  `toml:"timezone" env:"TARIFF_TIMEZONE" env-default:"Local"`
}

// Load читает конфигурацию из TOML файла, затем применяет переменные окружения
// и значения по умолчанию для незаполненных полей
func Load(path string) (*Config, error) {
	var cfg Config

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет ограничения полей и согласованность тарифа
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if _, err := c.Schedule(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RefreshPeriod период опроса заполненности
func (c CarparkConfig) RefreshPeriod() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// Schedule собирает тарифное расписание
func (c *Config) Schedule() (domain.RateSchedule, error) {
	loc, err := time.LoadLocation(c.Tariff.Timezone)
	if err != nil {
		return domain.RateSchedule{}, fmt.Errorf("tariff timezone %q: %v", c.Tariff.Timezone, err)
	}

	schedule := domain.RateSchedule{
		BusinessRate:   c.Tariff.BusinessRate,
		OutOfHoursRate: c.Tariff.OutOfHoursRate,
		OpenTime:       types.TimeString(c.Tariff.OpenTime),
		CloseTime:      types.TimeString(c.Tariff.CloseTime),
		Location:       loc,
	}

	if err := schedule.Validate(); err != nil {
		return domain.RateSchedule{}, err
	}

	return schedule, nil
}
