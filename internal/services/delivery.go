package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/platform/obs"
	"logistics-dispatch-service/internal/ports"
)

// Verifier implements delivery verification against stored shipments.
type Verifier struct {
	Shipments ports.ShipmentRepository

	Now func() time.Time
}

func (v *Verifier) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now().UTC()
}

// VerifyPIN checks the entered PIN and marks the shipment DELIVERED on
// success. Wrong PIN / unknown shipment / already-delivered are results,
// not errors; only storage failures return an error.
func (v *Verifier) VerifyPIN(ctx context.Context, shipmentID, pin, verifiedBy string) (_ ports.VerifyResult, err error) {
	defer obs.Time(ctx, "verifier.VerifyPIN")(&err)

	s, err := v.Shipments.GetShipment(ctx, shipmentID)
	if err != nil {
		var nf *ports.NotFoundError
		if errors.As(err, &nf) {
			return ports.VerifyResult{
				Success: false,
				Message: fmt.Sprintf("Shipment %s not found.", shipmentID),
			}, nil
		}
		return ports.VerifyResult{}, fmt.Errorf("verify pin: load shipment %s: %w", shipmentID, err)
	}

	if s.Status == domain.ShipmentDelivered {
		return ports.VerifyResult{
			Success: false,
			Message: fmt.Sprintf("Shipment %s is already delivered.", shipmentID),
			Status:  s.Status,
		}, nil
	}

	if subtle.ConstantTimeCompare([]byte(s.DeliveryPIN), []byte(pin)) != 1 {
		return ports.VerifyResult{
			Success: false,
			Message: "Incorrect delivery PIN.",
			Status:  s.Status,
		}, nil
	}

	if err := v.Shipments.MarkDelivered(ctx, shipmentID, verifiedBy, v.now()); err != nil {
		return ports.VerifyResult{}, fmt.Errorf("verify pin: mark delivered %s: %w", shipmentID, err)
	}

	return ports.VerifyResult{
		Success: true,
		Message: fmt.Sprintf("Shipment %s delivered. Verified by %s.", shipmentID, verifiedBy),
		Status:  domain.ShipmentDelivered,
	}, nil
}

func (v *Verifier) AllShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return v.Shipments.ListShipments(ctx)
}

func (v *Verifier) ActiveShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return v.Shipments.ListActiveShipments(ctx)
}
