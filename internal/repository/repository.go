package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Credentials struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// Repository holds all marketplace tables (users, markets, products, orders).
// The SQL is written to run on both engines: postgres in production, sqlite
// for local development and unit tests.
type Repository struct {
	db     *sql.DB
	driver string
}

func NewPostgres(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db, driver: "postgres"}, nil
}

func NewSQLite(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// in-memory sqlite databases are per-connection; keep the pool at one
	db.SetMaxOpenConns(1)

	return &Repository{db: db, driver: "sqlite"}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	var m *migrate.Migrate

	switch r.driver {
	case "postgres":
		driver, err := migratepg.WithInstance(r.db, &migratepg.Config{
			MigrationsTable: "marketplace_schema_migrations",
		})
		if err != nil {
			return fmt.Errorf("could not create migration driver: %w", err)
		}
		m, err = migrate.NewWithDatabaseInstance(
			fmt.Sprintf("file://%s", migrationsPath), "postgres", driver)
		if err != nil {
			return fmt.Errorf("could not create migrate instance: %w", err)
		}
	case "sqlite":
		driver, err := migratesqlite.WithInstance(r.db, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("could not create migration driver: %w", err)
		}
		m, err = migrate.NewWithDatabaseInstance(
			fmt.Sprintf("file://%s", migrationsPath), "sqlite", driver)
		if err != nil {
			return fmt.Errorf("could not create migrate instance: %w", err)
		}
	default:
		return fmt.Errorf("unknown driver %q", r.driver)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
