package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createOrdersQuery := `
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		weight_kg REAL NOT NULL,
		priority TEXT NOT NULL
	);
	`

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id TEXT PRIMARY KEY,
		vehicle_id TEXT NOT NULL,
		order_ids TEXT NOT NULL,
		route TEXT NOT NULL,
		eta_minutes INTEGER NOT NULL,
		delivery_pin TEXT NOT NULL,
		status TEXT NOT NULL,
		verified_by TEXT,
		verified_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	);
	`

	createIncidentsQuery := `
	CREATE TABLE IF NOT EXISTS incidents (
		incident_id TEXT PRIMARY KEY,
		shipment_id TEXT NOT NULL,
		vehicle_id TEXT NOT NULL,
		incident_type TEXT NOT NULL,
		description TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		estimated_delay_min INTEGER NOT NULL,
		steps TEXT NOT NULL,
		notify_customer BOOLEAN NOT NULL,
		recovery_summary TEXT NOT NULL,
		status TEXT NOT NULL,
		reported_at TIMESTAMP NOT NULL,
		resolved_at TIMESTAMP
	);
	`

	createStatusIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shipments_status
	ON shipments(status);
	`

	createIncidentIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_incidents_shipment_status
	ON incidents(shipment_id, status);
	`

	statements := []string{
		createOrdersQuery,
		createShipmentsQuery,
		createIncidentsQuery,
		createStatusIndexQuery,
		createIncidentIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type OrderSeed struct {
	OrderID     string  `json:"order_id"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	Priority    string  `json:"priority"`
}

// loadOrderSeeds reads and validates the order seed file shared by the
// SQLite and Postgres seeding paths.
func loadOrderSeeds(jsonPath string) ([]OrderSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed orders: read %q: %w", jsonPath, err)
	}

	var data []OrderSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed orders: parse json: %w", err)
	}

	rows := make([]OrderSeed, 0, len(data))
	for i, item := range data {
		orderID := strings.TrimSpace(item.OrderID)
		if orderID == "" {
			return nil, fmt.Errorf("seed orders: empty order_id at index %d", i+1)
		}

		dest := strings.TrimSpace(item.Destination)
		if dest == "" {
			return nil, fmt.Errorf("seed orders: order %s: destination cannot be empty", orderID)
		}

		if item.WeightKg <= 0 {
			return nil, fmt.Errorf("seed orders: order %s: invalid weight %.2f", orderID, item.WeightKg)
		}

		priority := strings.ToUpper(strings.TrimSpace(item.Priority))
		if priority == "" {
			priority = "NORMAL"
		}

		rows = append(rows, OrderSeed{
			OrderID:     orderID,
			Destination: dest,
			WeightKg:    item.WeightKg,
			Priority:    priority,
		})
	}

	return rows, nil
}

// Populate the database with order data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	rows, err := loadOrderSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed orders: begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT OR REPLACE INTO orders (
		order_id,
		destination,
		weight_kg,
		priority
	)
	VALUES (?, ?, ?, ?);
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
