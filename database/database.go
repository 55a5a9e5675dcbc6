package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"retail-analytics/models"
)

// MemoryLocation is the location reported by the empty in-memory store.
const MemoryLocation = ":memory:"

const pingTimeout = 5 * time.Second

// Store is the analytical data store the dashboard reads from.
type Store struct {
	db       *sql.DB
	dialect  Dialect
	location string
	fallback bool
}

// Querier runs a read query and returns its result as a table.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*models.Table, error)
}

// Open connects to the store at location. A SQLite file path, a
// postgres:// URL or a mysql:// / mariadb:// URL are accepted. When the
// location does not exist or cannot be reached, Open falls back to an empty
// in-memory store instead of failing.
func Open(ctx context.Context, location string) (*Store, error) {
	store, err := openLocation(ctx, location)
	if err == nil {
		log.Printf("✅ [DB] Connected to %s store at %s", store.dialect, redact(location))
		return store, nil
	}

	log.Printf("⚠️  [DB] %v; falling back to an empty in-memory store", err)
	store, err = OpenMemory(ctx)
	if err != nil {
		return nil, err
	}
	store.fallback = true
	return store, nil
}

// OpenMemory creates an empty in-memory SQLite store with the star schema in
// place, so every query runs and returns no rows.
func OpenMemory(ctx context.Context) (*Store, error) {
	db, err := sql.Open(driverSQLite, MemoryLocation)
	if err != nil {
		return nil, fmt.Errorf("open in-memory store: %w", err)
	}
	// every connection to :memory: is a separate database; keep exactly one
	// alive for the lifetime of the store
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &Store{db: db, dialect: DialectSQLite, location: MemoryLocation}
	if err := store.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func openLocation(ctx context.Context, location string) (*Store, error) {
	if location == "" {
		return nil, errors.New("no data store location configured")
	}

	dialect := DialectFor(location)
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case DialectPostgres:
		db, err = sql.Open(driverPostgres, location)
	case DialectMySQL:
		dsn, convErr := toMySQLDSN(location)
		if convErr != nil {
			return nil, convErr
		}
		db, err = sql.Open(driverMySQL, dsn)
	default:
		if _, statErr := os.Stat(location); statErr != nil {
			return nil, fmt.Errorf("data store %s not found: %w", location, statErr)
		}
		db, err = sql.Open(driverSQLite, location+"?_pragma=query_only(1)&_pragma=busy_timeout(5000)")
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", dialect, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := probe(pingCtx, db, dialect); err != nil {
		db.Close()
		return nil, fmt.Errorf("data store %s unreachable: %w", redact(location), err)
	}

	return &Store{db: db, dialect: dialect, location: location}, nil
}

// probe checks the store answers queries. For SQLite a ping alone does not
// touch the file, so the catalog is read as well.
func probe(ctx context.Context, db *sql.DB, dialect Dialect) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	if dialect != DialectSQLite {
		return nil
	}
	var n int
	return db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n)
}

// Close closes the store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	log.Println("Database connection pool closed")
	return err
}

// Dialect returns the SQL dialect of the store.
func (s *Store) Dialect() Dialect { return s.dialect }

// Location returns where the store was opened from.
func (s *Store) Location() string { return s.location }

// Fallback reports whether the configured store was missing and the empty
// in-memory store is being used.
func (s *Store) Fallback() bool { return s.fallback }

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Exec runs a statement directly against the pool. Queries go through Conn.
func (s *Store) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Query runs a read query on a pooled connection.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*models.Table, error) {
	return queryTable(ctx, s.db, s.dialect, query, args...)
}

// Conn acquires a dedicated connection. The caller must Close it.
func (s *Store) Conn(ctx context.Context) (*Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	return &Conn{conn: c, dialect: s.dialect}, nil
}

// Conn is a single connection scoped to one request.
type Conn struct {
	conn    *sql.Conn
	dialect Dialect
}

// Query runs a read query and scans the full result.
func (c *Conn) Query(ctx context.Context, query string, args ...any) (*models.Table, error) {
	return queryTable(ctx, c.conn, c.dialect, query, args...)
}

// Dialect returns the SQL dialect of the underlying store.
func (c *Conn) Dialect() Dialect { return c.dialect }

// Close returns the connection to the pool.
func (c *Conn) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

type rowQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryTable(ctx context.Context, q rowQuerier, dialect Dialect, query string, args ...any) (*models.Table, error) {
	rows, err := q.QueryContext(ctx, dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return models.ScanTable(rows)
}

// redact hides the password of URL-style locations.
func redact(location string) string {
	at := strings.LastIndex(location, "@")
	scheme := strings.Index(location, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return location
	}
	userinfo := location[scheme+3 : at]
	if i := strings.Index(userinfo, ":"); i >= 0 {
		return location[:scheme+3] + userinfo[:i] + ":****" + location[at:]
	}
	return location
}
