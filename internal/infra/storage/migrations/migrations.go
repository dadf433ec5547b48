package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrMigrationSource возвращается, если не удалось открыть встроенные миграции
	ErrMigrationSource = errors.New("migrations: failed to open migration source")

	// ErrMigrationDriver возвращается, если не удалось создать драйвер БД
	ErrMigrationDriver = errors.New("migrations: failed to create database driver")

	// ErrMigrationUp возвращается при ошибке применения миграций
	ErrMigrationUp = errors.New("migrations: failed to apply migrations")
)

// Run применяет все встроенные миграции схемы парковки.
// Если схема уже актуальна, ошибки нет.
func Run(db *sql.DB) error {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationSource, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationDriver, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMigrationDriver, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: %v", ErrMigrationUp, err)
	}

	return nil
}
