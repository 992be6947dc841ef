package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString accepts a JSON string or number and normalizes it to a
// trimmed string. Delivery PINs arrive both ways from clients.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(n.String())
		return nil
	}

	return fmt.Errorf("value must be a string or number")
}

type PlanRequest struct {
	Orders []string `json:"orders"`
}

type VerifyRequest struct {
	ShipmentID string     `json:"shipment_id"`
	Pin        FlexString `json:"pin"`
	VerifiedBy string     `json:"verified_by"`
}

type ReportIncidentRequest struct {
	ShipmentID   string `json:"shipment_id"`
	VehicleID    string `json:"vehicle_id"`
	IncidentType string `json:"incident_type"`
	Description  string `json:"description"`
}

type ResolveIncidentRequest struct {
	IncidentID string `json:"incident_id"`
}
