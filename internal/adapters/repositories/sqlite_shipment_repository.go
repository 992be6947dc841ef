package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

// SQLite-backed implementation of the ShipmentRepository port.
// Route legs and order IDs are stored as JSON text columns.
type SqliteShipmentRepository struct{ DB *sql.DB }

func NewSqliteShipmentRepository(db *sql.DB) *SqliteShipmentRepository {
	return &SqliteShipmentRepository{DB: db}
}

const shipmentColumns = `
	shipment_id,
	vehicle_id,
	order_ids,
	route,
	eta_minutes,
	delivery_pin,
	status,
	verified_by,
	verified_at,
	created_at
`

func (s *SqliteShipmentRepository) CreateShipment(ctx context.Context, sh *domain.Shipment) error {
	if s.DB == nil {
		return errors.New("shipment repository: DB is nil")
	}
	if !sh.Status.Valid() {
		return fmt.Errorf("create shipment: invalid status %q", sh.Status)
	}

	orderIDs, err := json.Marshal(sh.OrderIDs)
	if err != nil {
		return fmt.Errorf("create shipment: encode order ids: %w", err)
	}
	route, err := json.Marshal(sh.Route)
	if err != nil {
		return fmt.Errorf("create shipment: encode route: %w", err)
	}

	query := `
	INSERT INTO shipments (` + shipmentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = s.DB.ExecContext(ctx, query,
		sh.ShipmentID,
		sh.VehicleID,
		string(orderIDs),
		string(route),
		sh.EtaMinutes,
		sh.DeliveryPIN,
		string(sh.Status),
		sh.VerifiedBy,
		nullableTime(sh.VerifiedAt),
		sh.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create shipment %s: %w", sh.ShipmentID, err)
	}

	return nil
}

func (s *SqliteShipmentRepository) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("shipment repository: DB is nil")
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE shipment_id = ?;`
	row := s.DB.QueryRowContext(ctx, query, shipmentID)

	sh, err := scanShipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}
	if err != nil {
		return nil, fmt.Errorf("get shipment %s: %w", shipmentID, err)
	}

	return sh, nil
}

func (s *SqliteShipmentRepository) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return s.list(ctx, `SELECT `+shipmentColumns+` FROM shipments ORDER BY created_at, shipment_id;`)
}

func (s *SqliteShipmentRepository) ListActiveShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return s.list(ctx, `
	SELECT `+shipmentColumns+`
	FROM shipments
	WHERE status IN ('IN_TRANSIT', 'INCIDENT')
	ORDER BY created_at, shipment_id;
	`)
}

func (s *SqliteShipmentRepository) list(ctx context.Context, query string) ([]*domain.Shipment, error) {
	if s.DB == nil {
		return nil, errors.New("shipment repository: DB is nil")
	}

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]*domain.Shipment, 0, 16)
	for rows.Next() {
		sh, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("list shipments: scan row: %w", err)
		}
		shipments = append(shipments, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: row iteration: %w", err)
	}

	return shipments, nil
}

func (s *SqliteShipmentRepository) MarkDelivered(ctx context.Context, shipmentID, verifiedBy string, at time.Time) error {
	if s.DB == nil {
		return errors.New("shipment repository: DB is nil")
	}

	query := `
	UPDATE shipments
	SET status = 'DELIVERED', verified_by = ?, verified_at = ?
	WHERE shipment_id = ?;
	`
	res, err := s.DB.ExecContext(ctx, query, verifiedBy, at.UTC(), shipmentID)
	if err != nil {
		return fmt.Errorf("mark delivered %s: %w", shipmentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark delivered %s: rows affected: %w", shipmentID, err)
	}
	if n == 0 {
		return &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}

	return nil
}

func (s *SqliteShipmentRepository) SetShipmentStatus(ctx context.Context, shipmentID string, status domain.ShipmentStatus) error {
	if s.DB == nil {
		return errors.New("shipment repository: DB is nil")
	}
	if !status.Valid() {
		return fmt.Errorf("set shipment status: invalid status %q", status)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE shipments SET status = ? WHERE shipment_id = ?;`,
		string(status), shipmentID,
	)
	if err != nil {
		return fmt.Errorf("set shipment status %s: %w", shipmentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set shipment status %s: rows affected: %w", shipmentID, err)
	}
	if n == 0 {
		return &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*domain.Shipment, error) {
	var (
		sh         domain.Shipment
		orderIDs   string
		route      string
		status     string
		verifiedBy sql.NullString
		verifiedAt sql.NullTime
	)

	err := row.Scan(
		&sh.ShipmentID,
		&sh.VehicleID,
		&orderIDs,
		&route,
		&sh.EtaMinutes,
		&sh.DeliveryPIN,
		&status,
		&verifiedBy,
		&verifiedAt,
		&sh.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(orderIDs), &sh.OrderIDs); err != nil {
		return nil, fmt.Errorf("decode order ids: %w", err)
	}
	if err := json.Unmarshal([]byte(route), &sh.Route); err != nil {
		return nil, fmt.Errorf("decode route: %w", err)
	}

	sh.Status = domain.ShipmentStatus(status)
	if !sh.Status.Valid() {
		return nil, fmt.Errorf("shipment %s has invalid status %q", sh.ShipmentID, status)
	}

	if verifiedBy.Valid {
		sh.VerifiedBy = verifiedBy.String
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		sh.VerifiedAt = &t
	}

	return &sh, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
