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

// SQLite-backed implementation of the IncidentRepository port.
type SqliteIncidentRepository struct{ DB *sql.DB }

func NewSqliteIncidentRepository(db *sql.DB) *SqliteIncidentRepository {
	return &SqliteIncidentRepository{DB: db}
}

const incidentColumns = `
	incident_id,
	shipment_id,
	vehicle_id,
	incident_type,
	description,
	action,
	severity,
	estimated_delay_min,
	steps,
	notify_customer,
	recovery_summary,
	status,
	reported_at,
	resolved_at
`

func (r *SqliteIncidentRepository) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	if r.DB == nil {
		return errors.New("incident repository: DB is nil")
	}
	if !inc.Status.Valid() {
		return fmt.Errorf("create incident: invalid status %q", inc.Status)
	}

	steps, err := json.Marshal(inc.Steps)
	if err != nil {
		return fmt.Errorf("create incident: encode steps: %w", err)
	}

	query := `
	INSERT INTO incidents (` + incidentColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err = r.DB.ExecContext(ctx, query,
		inc.IncidentID,
		inc.ShipmentID,
		inc.VehicleID,
		inc.Type,
		inc.Description,
		inc.Action,
		string(inc.Severity),
		inc.EstimatedDelay,
		string(steps),
		inc.NotifyCustomer,
		inc.RecoverySummary,
		string(inc.Status),
		inc.ReportedAt.UTC(),
		nullableTime(inc.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("create incident %s: %w", inc.IncidentID, err)
	}

	return nil
}

func (r *SqliteIncidentRepository) GetIncident(ctx context.Context, incidentID string) (*domain.Incident, error) {
	if r.DB == nil {
		return nil, errors.New("incident repository: DB is nil")
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE incident_id = ?;`
	row := r.DB.QueryRowContext(ctx, query, incidentID)

	inc, err := scanIncident(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ports.NotFoundError{Kind: "incident", ID: incidentID}
	}
	if err != nil {
		return nil, fmt.Errorf("get incident %s: %w", incidentID, err)
	}

	return inc, nil
}

func (r *SqliteIncidentRepository) ListIncidents(ctx context.Context) ([]*domain.Incident, error) {
	return r.list(ctx, `SELECT `+incidentColumns+` FROM incidents ORDER BY reported_at, incident_id;`)
}

func (r *SqliteIncidentRepository) ListOpenIncidents(ctx context.Context) ([]*domain.Incident, error) {
	return r.list(ctx, `
	SELECT `+incidentColumns+`
	FROM incidents
	WHERE status = 'OPEN'
	ORDER BY reported_at, incident_id;
	`)
}

func (r *SqliteIncidentRepository) list(ctx context.Context, query string) ([]*domain.Incident, error) {
	if r.DB == nil {
		return nil, errors.New("incident repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list incidents: query incidents table: %w", err)
	}
	defer rows.Close()

	incidents := make([]*domain.Incident, 0, 16)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("list incidents: scan row: %w", err)
		}
		incidents = append(incidents, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list incidents: row iteration: %w", err)
	}

	return incidents, nil
}

func (r *SqliteIncidentRepository) ResolveIncident(ctx context.Context, incidentID string, at time.Time) error {
	if r.DB == nil {
		return errors.New("incident repository: DB is nil")
	}

	query := `
	UPDATE incidents
	SET status = 'RESOLVED', resolved_at = ?
	WHERE incident_id = ? AND status = 'OPEN';
	`
	res, err := r.DB.ExecContext(ctx, query, at.UTC(), incidentID)
	if err != nil {
		return fmt.Errorf("resolve incident %s: %w", incidentID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("resolve incident %s: rows affected: %w", incidentID, err)
	}
	if n == 0 {
		return &ports.NotFoundError{Kind: "incident", ID: incidentID}
	}

	return nil
}

func (r *SqliteIncidentRepository) CountOpenForShipment(ctx context.Context, shipmentID string) (int, error) {
	if r.DB == nil {
		return 0, errors.New("incident repository: DB is nil")
	}

	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM incidents WHERE shipment_id = ? AND status = 'OPEN';`,
		shipmentID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open incidents for %s: %w", shipmentID, err)
	}

	return n, nil
}

func scanIncident(row rowScanner) (*domain.Incident, error) {
	var (
		inc        domain.Incident
		severity   string
		steps      string
		status     string
		resolvedAt sql.NullTime
	)

	err := row.Scan(
		&inc.IncidentID,
		&inc.ShipmentID,
		&inc.VehicleID,
		&inc.Type,
		&inc.Description,
		&inc.Action,
		&severity,
		&inc.EstimatedDelay,
		&steps,
		&inc.NotifyCustomer,
		&inc.RecoverySummary,
		&status,
		&inc.ReportedAt,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(steps), &inc.Steps); err != nil {
		return nil, fmt.Errorf("decode steps: %w", err)
	}

	inc.Severity = domain.IncidentSeverity(severity)
	inc.Status = domain.IncidentStatus(status)
	if !inc.Status.Valid() {
		return nil, fmt.Errorf("incident %s has invalid status %q", inc.IncidentID, status)
	}

	if resolvedAt.Valid {
		t := resolvedAt.Time
		inc.ResolvedAt = &t
	}

	return &inc, nil
}
