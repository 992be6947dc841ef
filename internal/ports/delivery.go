package ports

import (
	"context"

	"logistics-dispatch-service/internal/domain"
)

// Outcome of a PIN verification attempt. Failure (wrong PIN, unknown
// shipment, already delivered) is a result value, not an error.
type VerifyResult struct {
	Success bool
	Message string
	Status  domain.ShipmentStatus
}

// Contract for verifying deliveries and reading shipment state.
type DeliveryVerifier interface {
	// VerifyPIN checks the entered PIN against the shipment and marks it
	// DELIVERED on success.
	VerifyPIN(ctx context.Context, shipmentID, pin, verifiedBy string) (VerifyResult, error)

	AllShipments(ctx context.Context) ([]*domain.Shipment, error)

	// ActiveShipments returns shipments still on the road
	// (IN_TRANSIT or INCIDENT).
	ActiveShipments(ctx context.Context) ([]*domain.Shipment, error)
}
