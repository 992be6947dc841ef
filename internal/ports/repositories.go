package ports

import (
	"context"
	"time"

	"logistics-dispatch-service/internal/domain"
)

// Port: a boundary for retrieving Order entities from a data source.
type OrderRepository interface {
	// Retrieve the orders with the given IDs. Missing IDs are simply
	// absent from the result; the caller decides whether that is fatal.
	GetOrders(ctx context.Context, orderIDs []string) ([]*domain.Order, error)
}

// Port: shipment persistence. Status writes go through the dedicated
// methods so repositories can enforce the closed status set.
type ShipmentRepository interface {
	CreateShipment(ctx context.Context, s *domain.Shipment) error
	GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error)
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)
	ListActiveShipments(ctx context.Context) ([]*domain.Shipment, error)
	MarkDelivered(ctx context.Context, shipmentID, verifiedBy string, at time.Time) error
	SetShipmentStatus(ctx context.Context, shipmentID string, status domain.ShipmentStatus) error
}

// Port: incident persistence.
type IncidentRepository interface {
	CreateIncident(ctx context.Context, inc *domain.Incident) error
	GetIncident(ctx context.Context, incidentID string) (*domain.Incident, error)
	ListIncidents(ctx context.Context) ([]*domain.Incident, error)
	ListOpenIncidents(ctx context.Context) ([]*domain.Incident, error)
	ResolveIncident(ctx context.Context, incidentID string, at time.Time) error
	// CountOpenForShipment reports how many incidents remain OPEN for a
	// shipment, so resolving the last one can release the shipment.
	CountOpenForShipment(ctx context.Context, shipmentID string) (int, error)
}

// Sentinel-style lookup failure shared by repositories.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " " + e.ID + " not found"
}
