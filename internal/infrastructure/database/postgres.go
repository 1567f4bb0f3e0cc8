package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// NewPostgresDB opens a pooled connection and verifies it with a ping.
func NewPostgresDB(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// InitSchema creates the tables used by the postgres repositories.
func InitSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(128) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		phone VARCHAR(64) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS categories (
		value VARCHAR(64) PRIMARY KEY,
		label VARCHAR(128) NOT NULL,
		sort_order INT NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS products (
		id VARCHAR(64) PRIMARY KEY,
		seller_id VARCHAR(128) NOT NULL,
		name VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category VARCHAR(128) NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT '',
		revenue NUMERIC(20, 2) NOT NULL DEFAULT 0,
		ask_value NUMERIC(20, 2) NOT NULL DEFAULT 0,
		profit NUMERIC(20, 2) NOT NULL DEFAULT 0,
		image TEXT NOT NULL DEFAULT '',
		documents TEXT[] NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS offers (
		id VARCHAR(64) PRIMARY KEY,
		product_id VARCHAR(64) NOT NULL REFERENCES products(id),
		product_name VARCHAR(255) NOT NULL,
		buyer_id VARCHAR(128) NOT NULL,
		seller_id VARCHAR(128) NOT NULL,
		amount NUMERIC(20, 2) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL,
		counter_amount NUMERIC(20, 2),
		counter_message TEXT NOT NULL DEFAULT '',
		counter_response_message TEXT NOT NULL DEFAULT '',
		version BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS offer_logs (
		id VARCHAR(64) PRIMARY KEY,
		offer_id VARCHAR(64) NOT NULL REFERENCES offers(id) ON DELETE CASCADE,
		from_status VARCHAR(32) NOT NULL DEFAULT '',
		to_status VARCHAR(32) NOT NULL,
		actor_id VARCHAR(128) NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS favorites (
		id VARCHAR(300) PRIMARY KEY,
		user_id VARCHAR(128) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, product_id)
	);

	CREATE INDEX IF NOT EXISTS idx_products_seller_id ON products(seller_id);
	CREATE INDEX IF NOT EXISTS idx_offers_buyer_id ON offers(buyer_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_offers_seller_id ON offers(seller_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_offers_product_id ON offers(product_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_offer_logs_offer_id ON offer_logs(offer_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id, created_at DESC);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}
