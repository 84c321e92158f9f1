package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shop-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row lookup matches nothing.
var ErrNotFound = errors.New("not found")

// ErrOutOfStock is returned when a guarded stock decrement matches no row.
var ErrOutOfStock = errors.New("out of stock")

type Store struct {
	db     *sqlx.DB
	driver string
}

// NewStore opens a database store. Supported drivers are "sqlite"
// (modernc, no server required) and "postgres" (lib/pq).
func NewStore(driver, dsn string) (*Store, error) {
	if driver == "sqlite" {
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite allows a single writer; a one-connection pool serializes
		// writers instead of surfacing SQLITE_BUSY
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db, driver: driver}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	price REAL NOT NULL
);
CREATE TABLE IF NOT EXISTS details (
	id INTEGER PRIMARY KEY REFERENCES products(id),
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	stock INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS transactions (
	transaction_id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL REFERENCES users(username),
	product_id INTEGER NOT NULL,
	product_name TEXT NOT NULL,
	price REAL NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	id BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL
);
CREATE TABLE IF NOT EXISTS details (
	id BIGINT PRIMARY KEY REFERENCES products(id),
	category TEXT NOT NULL,
	description TEXT NOT NULL,
	stock INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS transactions (
	transaction_id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL REFERENCES users(username),
	product_id BIGINT NOT NULL,
	product_name TEXT NOT NULL,
	price DOUBLE PRECISION NOT NULL
);
`

// InitSchema creates the tables if they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	schema := schemaSQLite
	if s.driver == "postgres" {
		schema = schemaPostgres
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// GetProducts retrieves all products ordered by id
func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, "SELECT id, name, price FROM products ORDER BY id")
	return products, err
}

// GetProductDetail retrieves a product joined with its details
func (s *Store) GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	query := s.db.Rebind(`
		SELECT p.id, p.name, p.price, d.category, d.description, d.stock
		FROM products p, details d
		WHERE p.id = ? AND p.id = d.id`)

	var detail models.ProductDetail
	err := s.db.GetContext(ctx, &detail, query, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// SearchProducts returns ids of products whose name, description or category
// contains the term as a case-insensitive substring, ordered by id
func (s *Store) SearchProducts(ctx context.Context, term string) ([]models.ProductRef, error) {
	query := s.db.Rebind(`
		SELECT p.id
		FROM products p, details d
		WHERE p.id = d.id
		  AND (LOWER(p.name) LIKE ? OR LOWER(d.description) LIKE ? OR LOWER(d.category) LIKE ?)
		ORDER BY p.id`)

	pattern := "%" + strings.ToLower(term) + "%"
	refs := []models.ProductRef{}
	err := s.db.SelectContext(ctx, &refs, query, pattern, pattern, pattern)
	return refs, err
}

// FilterProducts returns ids of products whose category matches exactly
func (s *Store) FilterProducts(ctx context.Context, category string) ([]models.ProductRef, error) {
	query := s.db.Rebind(`
		SELECT p.id
		FROM products p, details d
		WHERE p.id = d.id AND d.category = ?
		ORDER BY p.id`)

	refs := []models.ProductRef{}
	err := s.db.SelectContext(ctx, &refs, query, category)
	return refs, err
}
