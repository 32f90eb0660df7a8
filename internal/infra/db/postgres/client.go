package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

// New connects to dsn and applies the schema.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	db := &DB{Pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error {
	db.Pool.Close()
	return nil
}

func (db *DB) migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS company (
		id INTEGER PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		address_line_1 VARCHAR(200) NOT NULL,
		state VARCHAR(50) NOT NULL,
		gstin VARCHAR(20) NOT NULL,
		phone VARCHAR(20) NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		address VARCHAR(255) NOT NULL DEFAULT '',
		gstin VARCHAR(20) NOT NULL DEFAULT '',
		state VARCHAR(50) NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_name ON customers (name)`,
	`CREATE TABLE IF NOT EXISTS quotations (
		id BIGSERIAL PRIMARY KEY,
		quotation_number VARCHAR(32) NOT NULL UNIQUE,
		date DATE NOT NULL,
		customer_id BIGINT NOT NULL REFERENCES customers (id),
		place_of_supply VARCHAR(100) NOT NULL DEFAULT '',
		tax_mode VARCHAR(8) NOT NULL DEFAULT 'inter',
		total_basic NUMERIC(14, 2) NOT NULL DEFAULT 0,
		total_gst NUMERIC(14, 2) NOT NULL DEFAULT 0,
		grand_total NUMERIC(14, 2) NOT NULL DEFAULT 0,
		total_cgst NUMERIC(14, 2) NOT NULL DEFAULT 0,
		total_sgst NUMERIC(14, 2) NOT NULL DEFAULT 0,
		total_igst NUMERIC(14, 2) NOT NULL DEFAULT 0,
		percentage_cgst NUMERIC(6, 2) NOT NULL DEFAULT 0,
		percentage_sgst NUMERIC(6, 2) NOT NULL DEFAULT 0,
		percentage_igst NUMERIC(6, 2) NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS quotation_items (
		id BIGSERIAL PRIMARY KEY,
		quotation_id BIGINT NOT NULL REFERENCES quotations (id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		description VARCHAR(255) NOT NULL,
		qty DOUBLE PRECISION NOT NULL,
		rate DOUBLE PRECISION NOT NULL,
		unit VARCHAR(10) NOT NULL DEFAULT 'NOS',
		gst_rate NUMERIC(5, 2) NOT NULL DEFAULT 18,
		basic_amount NUMERIC(14, 2) NOT NULL,
		gst_amount NUMERIC(14, 2) NOT NULL,
		total_amount NUMERIC(14, 2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quotation_items_quotation ON quotation_items (quotation_id)`,
}
