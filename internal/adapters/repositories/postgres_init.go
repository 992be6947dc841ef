package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the Postgres schema. Used by cmd/dbtool against a managed
// database; the server itself runs the SQLite variant locally.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init postgres schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
		CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			destination TEXT NOT NULL,
			weight_kg DOUBLE PRECISION NOT NULL,
			priority TEXT NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS shipments (
			shipment_id TEXT PRIMARY KEY,
			vehicle_id TEXT NOT NULL,
			order_ids JSONB NOT NULL,
			route JSONB NOT NULL,
			eta_minutes INTEGER NOT NULL,
			delivery_pin TEXT NOT NULL,
			status TEXT NOT NULL,
			verified_by TEXT,
			verified_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS incidents (
			incident_id TEXT PRIMARY KEY,
			shipment_id TEXT NOT NULL,
			vehicle_id TEXT NOT NULL,
			incident_type TEXT NOT NULL,
			description TEXT NOT NULL,
			action TEXT NOT NULL,
			severity TEXT NOT NULL,
			estimated_delay_min INTEGER NOT NULL,
			steps JSONB NOT NULL,
			notify_customer BOOLEAN NOT NULL,
			recovery_summary TEXT NOT NULL,
			status TEXT NOT NULL,
			reported_at TIMESTAMPTZ NOT NULL,
			resolved_at TIMESTAMPTZ
		);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_shipments_status
		ON shipments(status);
		`,
		`
		CREATE INDEX IF NOT EXISTS idx_incidents_shipment_status
		ON incidents(shipment_id, status);
		`,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init postgres schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init postgres schema: commit tx: %w", err)
	}

	return nil
}

// Seed orders into Postgres from the same JSON seed file format the
// SQLite path uses.
func SeedPostgresFromJSON(db *sql.DB, jsonPath string) error {
	rows, err := loadOrderSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO orders (order_id, destination, weight_kg, priority)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (order_id) DO UPDATE
	SET destination = EXCLUDED.destination,
		weight_kg = EXCLUDED.weight_kg,
		priority = EXCLUDED.priority;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed orders: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range rows {
		if _, err := stmt.Exec(o.OrderID, o.Destination, o.WeightKg, o.Priority); err != nil {
			return fmt.Errorf("seed orders: insert order_id=%s: %w", o.OrderID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed orders: commit tx: %w", err)
	}

	return nil
}
