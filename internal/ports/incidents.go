package ports

import (
	"context"

	"logistics-dispatch-service/internal/domain"
)

// Input for reporting a transport incident. Type is expected to be
// upper-cased by the caller before delegation.
type IncidentReport struct {
	ShipmentID  string
	VehicleID   string
	Type        string
	Description string
}

// Outcome of a resolve attempt. An unknown or already-resolved incident
// yields Success=false, not an error.
type ResolveResult struct {
	Success    bool
	Message    string
	IncidentID string
}

// Contract for reporting and resolving transport incidents.
type IncidentService interface {
	// Report records an incident and returns it with a recovery plan
	// attached.
	Report(ctx context.Context, report IncidentReport) (*domain.Incident, error)

	Resolve(ctx context.Context, incidentID string) (ResolveResult, error)

	AllIncidents(ctx context.Context) ([]*domain.Incident, error)
	OpenIncidents(ctx context.Context) ([]*domain.Incident, error)
}
