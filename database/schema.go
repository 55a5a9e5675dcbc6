package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements create the star schema the dashboard reads. They are only
// applied to the in-memory store; real stores are produced upstream.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS dim_department (
		department_id INTEGER PRIMARY KEY,
		department    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dim_aisles (
		aisle_id INTEGER PRIMARY KEY,
		aisle    TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS dim_product (
		product_id    INTEGER PRIMARY KEY,
		product_name  TEXT NOT NULL,
		aisle_id      INTEGER NOT NULL REFERENCES dim_aisles(aisle_id),
		department_id INTEGER NOT NULL REFERENCES dim_department(department_id)
	)`,
	`CREATE TABLE IF NOT EXISTS dim_order (
		order_id               INTEGER PRIMARY KEY,
		user_id                INTEGER NOT NULL,
		order_number           INTEGER NOT NULL,
		order_dow              INTEGER NOT NULL,
		order_hour_of_day      INTEGER NOT NULL,
		days_since_prior_order REAL
	)`,
	`CREATE TABLE IF NOT EXISTS fact_order_products (
		order_id   INTEGER NOT NULL REFERENCES dim_order(order_id),
		product_id INTEGER NOT NULL REFERENCES dim_product(product_id),
		reordered  INTEGER NOT NULL CHECK (reordered IN (0, 1))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_order_products_order ON fact_order_products(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fact_order_products_product ON fact_order_products(product_id)`,
	`CREATE INDEX IF NOT EXISTS idx_dim_order_user ON dim_order(user_id)`,
}

// CreateSchema creates the star schema tables if they do not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// CreateFile opens a writable SQLite store at path, creating the file and
// the schema when missing. It is used to produce development datasets.
func CreateFile(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(driverSQLite, path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, dialect: DialectSQLite, location: path}
	if err := store.CreateSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// WithTx runs fn inside a transaction, committing when it returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
