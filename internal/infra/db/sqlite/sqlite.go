package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store implements quote.Store on a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating the file and its directory if
// needed, and applies the schema. ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection: an in-memory database lives and dies with its
	// connection, and the foreign_keys pragma is per connection.
	db.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func migrate(db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS company (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		address_line_1 TEXT NOT NULL,
		state TEXT NOT NULL,
		gstin TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		gstin TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quotation_number TEXT NOT NULL UNIQUE,
		date TEXT NOT NULL,
		customer_id INTEGER NOT NULL REFERENCES customers(id),
		place_of_supply TEXT NOT NULL DEFAULT '',
		tax_mode TEXT NOT NULL DEFAULT 'inter',
		total_basic REAL NOT NULL DEFAULT 0,
		total_gst REAL NOT NULL DEFAULT 0,
		grand_total REAL NOT NULL DEFAULT 0,
		total_cgst REAL NOT NULL DEFAULT 0,
		total_sgst REAL NOT NULL DEFAULT 0,
		total_igst REAL NOT NULL DEFAULT 0,
		percentage_cgst REAL NOT NULL DEFAULT 0,
		percentage_sgst REAL NOT NULL DEFAULT 0,
		percentage_igst REAL NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS quotation_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		quotation_id INTEGER NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		description TEXT NOT NULL,
		qty REAL NOT NULL,
		rate REAL NOT NULL,
		unit TEXT NOT NULL DEFAULT 'NOS',
		gst_rate REAL NOT NULL DEFAULT 18,
		basic_amount REAL NOT NULL,
		gst_amount REAL NOT NULL,
		total_amount REAL NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quotation_items_quotation ON quotation_items(quotation_id)`,
}
