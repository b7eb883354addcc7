package postgres

import (
	"context"
	"fmt"
)

// statements creates the tenant schema. Ordering matters: companies first,
// then everything that cascades from it.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		subscription_status TEXT NOT NULL DEFAULT 'trial'
			CHECK (subscription_status IN ('trial', 'active', 'expired', 'cancelled')),
		subscription_ends_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT PRIMARY KEY,
		company_id INTEGER REFERENCES companies(id) ON DELETE CASCADE,
		username TEXT NOT NULL DEFAULT '',
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'employee' CHECK (role IN ('employee', 'manager', 'admin')),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		last_seen TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		name_internal TEXT NOT NULL,
		name_russian TEXT NOT NULL DEFAULT '',
		name_chinese TEXT NOT NULL DEFAULT '',
		package_weight REAL NOT NULL,
		units_per_box INTEGER NOT NULL,
		box_weight REAL NOT NULL,
		price_per_box REAL NOT NULL,
		unit TEXT NOT NULL DEFAULT 'кг' CHECK (unit IN ('кг', 'шт', 'л', 'мл', 'г')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(company_id, name_internal)
	)`,

	`CREATE TABLE IF NOT EXISTS stock (
		id SERIAL PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		quantity REAL NOT NULL,
		weight REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(company_id, product_id, date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_stock_product_date
		ON stock (company_id, product_id, date DESC)`,

	`CREATE TABLE IF NOT EXISTS supplies (
		id SERIAL PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		boxes INTEGER NOT NULL,
		weight REAL NOT NULL,
		cost REAL NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE INDEX IF NOT EXISTS idx_supplies_product_date
		ON supplies (company_id, product_id, date)`,

	`CREATE TABLE IF NOT EXISTS pending_orders (
		id SERIAL PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed', 'cancelled')),
		total_cost REAL NOT NULL,
		notes TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE TABLE IF NOT EXISTS pending_order_items (
		id SERIAL PRIMARY KEY,
		order_id INTEGER NOT NULL REFERENCES pending_orders(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		boxes_ordered INTEGER NOT NULL,
		weight_ordered REAL NOT NULL,
		cost REAL NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS pending_stock_submissions (
		id SERIAL PRIMARY KEY,
		company_id INTEGER NOT NULL REFERENCES companies(id) ON DELETE CASCADE,
		submitted_by BIGINT NOT NULL REFERENCES users(id),
		submission_date DATE NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected')),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		reviewed_at TIMESTAMP,
		reviewed_by BIGINT REFERENCES users(id),
		rejection_reason TEXT
	)`,

	// One pending submission per (company, submitter, date). Approved and
	// rejected rows are history and do not collide.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_submissions_one_pending
		ON pending_stock_submissions (company_id, submitted_by, submission_date)
		WHERE status = 'pending'`,

	`CREATE TABLE IF NOT EXISTS pending_stock_items (
		id SERIAL PRIMARY KEY,
		submission_id INTEGER NOT NULL REFERENCES pending_stock_submissions(id) ON DELETE CASCADE,
		product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity REAL NOT NULL,
		weight REAL NOT NULL,
		edited_quantity REAL,
		edited_weight REAL
	)`,

	// The system tenant hosts the template catalog and the platform admins.
	`INSERT INTO companies (id, name, subscription_status)
		VALUES (1, 'System', 'active')
		ON CONFLICT DO NOTHING`,
}

// SchemaStatements exposes the DDL for tooling that manages its own
// connection, like the seeder.
func SchemaStatements() []string {
	out := make([]string, len(statements))
	copy(out, statements)
	return out
}

// InitSchema creates all tables, indexes and the system tenant.
func (db *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", mapError(err))
		}
	}
	return nil
}
