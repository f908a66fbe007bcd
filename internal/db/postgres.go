package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

func (c PostgresConfig) Enabled() bool {
	return c.Host != ""
}

func (c PostgresConfig) DSN() string {
	return c.url("postgres")
}

func (c PostgresConfig) url(scheme string) string {
	u := url.URL{
		Scheme:   scheme,
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// InitDB connects to PostgreSQL and brings the schema up to date.
func InitDB(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("[DB] unable to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("[DB] failed to ping PostgreSQL: %w", err)
	}

	if err := Migrate(cfg); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("[DB] Connected to PostgreSQL successfully",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Name))
	return pool, nil
}

func Migrate(cfg PostgresConfig) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("[DB] failed to open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.url("pgx5"))
	if err != nil {
		return fmt.Errorf("[DB] failed to create migrate instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("[DB] Failed to close migrator",
				slog.Any("source_error", srcErr),
				slog.Any("database_error", dbErr))
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("[DB] failed to apply migrations: %w", err)
	}

	version, dirty, err := schemaVersion(m)
	if err != nil {
		slog.Warn("[DB] Migrations applied but schema version is unreadable",
			slog.String("error", err.Error()))
		return nil
	}
	slog.Info("[DB] Schema up to date",
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty))
	return nil
}

type versioner interface {
	Version() (uint, bool, error)
}

// schemaVersion reports version 0 for a database without applied migrations.
func schemaVersion(m versioner) (uint, bool, error) {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("[DB] failed to read schema version: %w", err)
	}
	return version, dirty, nil
}
