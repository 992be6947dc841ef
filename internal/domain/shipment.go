package domain

import "time"

// Closed set of shipment states. Stored as text but only these values
// are ever written; Valid guards rows coming back from storage.
type ShipmentStatus string

const (
	ShipmentInTransit ShipmentStatus = "IN_TRANSIT"
	ShipmentDelivered ShipmentStatus = "DELIVERED"
	ShipmentIncident  ShipmentStatus = "INCIDENT"
)

func (s ShipmentStatus) Valid() bool {
	switch s {
	case ShipmentInTransit, ShipmentDelivered, ShipmentIncident:
		return true
	}
	return false
}

// Active shipments are still on the road: either moving or stopped by
// an open incident.
func (s ShipmentStatus) Active() bool {
	return s == ShipmentInTransit || s == ShipmentIncident
}

// A single leg of a planned route between two named locations.
type RouteLeg struct {
	From       string `json:"from"`
	To         string `json:"to"`
	EtaMinutes int    `json:"eta_minutes"`
}

// Represents one dispatched vehicle load covering one or more orders.
// A Shipment is created by the planner with a delivery PIN and stays
// IN_TRANSIT until verified at the door or interrupted by an incident.
type Shipment struct {
	ShipmentID  string
	VehicleID   string
	OrderIDs    []string
	Route       []RouteLeg
	EtaMinutes  int
	DeliveryPIN string
	Status      ShipmentStatus
	VerifiedBy  string
	VerifiedAt  *time.Time
	CreatedAt   time.Time
}
