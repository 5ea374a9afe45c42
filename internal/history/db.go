package history

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	// postgres driver
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Open connects to the Postgres instance at dsn, runs pending migrations,
// and returns the connection pool with a cleanup function.
func Open(dsn string) (*sqlx.DB, func(), error) {
	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, func() {}, fmt.Errorf("history: failed to connect: %w", err)
	}
	cleanup := func() { _ = conn.Close() }

	if err := runMigrations(conn); err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return conn, cleanup, nil
}

func runMigrations(conn *sqlx.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("history: failed to load migrations: %w", err)
	}
	driver, err := postgres.WithInstance(conn.DB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("history: failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("history: failed to create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("history: migration failed: %w", err)
	}
	return nil
}
