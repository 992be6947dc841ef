package domain

import "time"

// Represents one shipment produced by a planning run, including the
// delivery PIN handed to the customer. The PIN is returned once in the
// plan payload and afterwards only compared, never listed.
type PlannedShipment struct {
	ShipmentID  string     `json:"shipment_id"`
	VehicleID   string     `json:"vehicle_id"`
	OrderIDs    []string   `json:"orders"`
	Route       []RouteLeg `json:"route"`
	EtaMinutes  int        `json:"eta_minutes"`
	DeliveryPIN string     `json:"delivery_pin"`
}

// Output of a single planning run. It is immutable planning data and
// contains no side effects; the shipments it describes have already
// been persisted by the time a plan is returned.
type DispatchPlan struct {
	PlanID      string            `json:"plan_id"`
	Shipments   []PlannedShipment `json:"shipments"`
	Summary     string            `json:"summary"`
	GeneratedAt time.Time         `json:"generated_at"`
}
