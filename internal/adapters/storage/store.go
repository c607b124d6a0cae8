// Package storage implements the fishery storage port with bun on top of
// database/sql. SQLite (modernc.org/sqlite) is the embedded default;
// Postgres is reached through the pgx stdlib driver.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // pure go sqlite driver

	"github.com/bft-labs/fishery/internal/ports"
)

// Driver identifies a concrete storage engine.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"   // embedded sqlite file
	DriverPostgres Driver = "postgres" // PostgreSQL server
)

const (
	// DefaultSQLitePath is used when no path is configured.
	DefaultSQLitePath = "fishery.db"

	defaultPostgresDSN = "postgres://localhost/fishery?sslmode=disable"

	connectBackoffInitial = 200 * time.Millisecond
	connectBackoffMax     = 5 * time.Second
)

// Config selects and configures the engine.
type Config struct {
	Driver      Driver
	SQLitePath  string
	PostgresDSN string

	// ConnectAttempts bounds the initial ping; zero means a single try.
	ConnectAttempts int
}

// Store owns the engine. It is safe for concurrent use.
type Store struct {
	db     *bun.DB
	driver Driver
}

var _ ports.Storage = (*Store)(nil)

// Open connects to the configured engine and creates the fishes table if it
// does not exist yet.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	var (
		db  *bun.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		db, err = openSQLite(cfg.SQLitePath)
		cfg.Driver = DriverSQLite
	case DriverPostgres:
		db, err = openPostgres(cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	b := newBackoff(connectBackoffInitial, connectBackoffMax)
	if err := pingWithRetry(ctx, db.PingContext, cfg.ConnectAttempts, b); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	if err := createSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, driver: cfg.Driver}, nil
}

func openSQLite(path string) (*bun.DB, error) {
	if path == "" {
		path = DefaultSQLitePath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create db path: %w", err)
		}
	}

	// busy_timeout waits on a locked file instead of failing; WAL lets
	// readers proceed while a write is in flight.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", filepath.Clean(path))
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite serializes writers at the file; one connection keeps that
	// queueing inside the pool rather than in SQLITE_BUSY retries.
	sqldb.SetMaxOpenConns(1)
	sqldb.SetMaxIdleConns(1)
	sqldb.SetConnMaxIdleTime(5 * time.Minute)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func openPostgres(dsn string) (*bun.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = defaultPostgresDSN
	}
	sqldb, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func createSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*fishRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create fishes table: %w", err)
	}
	return nil
}

// Driver returns the engine in use.
func (s *Store) Driver() Driver { return s.driver }

// DB exposes the underlying bun.DB for integration testing hooks.
func (s *Store) DB() *bun.DB { return s.db }

// Session acquires a dedicated connection for one unit of work.
func (s *Store) Session(ctx context.Context) (ports.Session, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire session: %w", err)
	}
	return &session{conn: conn}, nil
}

// Ping checks that the engine is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the engine.
func (s *Store) Close() error {
	return s.db.Close()
}
