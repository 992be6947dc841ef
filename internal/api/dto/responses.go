package dto

import (
	"time"

	"logistics-dispatch-service/internal/domain"
)

// Shipment as exposed over the API. The delivery PIN is deliberately
// absent: it is returned once in the plan payload and never listed.
type ShipmentResponse struct {
	ShipmentID string            `json:"shipment_id"`
	VehicleID  string            `json:"vehicle_id"`
	OrderIDs   []string          `json:"orders"`
	Route      []domain.RouteLeg `json:"route"`
	EtaMinutes int               `json:"eta_minutes"`
	Status     string            `json:"status"`
	VerifiedBy string            `json:"verified_by,omitempty"`
	VerifiedAt *time.Time        `json:"verified_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

func NewShipmentResponse(s *domain.Shipment) ShipmentResponse {
	return ShipmentResponse{
		ShipmentID: s.ShipmentID,
		VehicleID:  s.VehicleID,
		OrderIDs:   s.OrderIDs,
		Route:      s.Route,
		EtaMinutes: s.EtaMinutes,
		Status:     string(s.Status),
		VerifiedBy: s.VerifiedBy,
		VerifiedAt: s.VerifiedAt,
		CreatedAt:  s.CreatedAt,
	}
}

type VerifyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

type IncidentResponse struct {
	IncidentID     string     `json:"incident_id"`
	ShipmentID     string     `json:"shipment_id"`
	VehicleID      string     `json:"vehicle_id"`
	IncidentType   string     `json:"incident_type"`
	Description    string     `json:"description"`
	Action         string     `json:"action"`
	Severity       string     `json:"severity"`
	EstimatedDelay int        `json:"estimated_delay_min"`
	Steps          []string   `json:"steps"`
	NotifyCustomer bool       `json:"notify_customer"`
	Summary        string     `json:"summary"`
	Status         string     `json:"status"`
	ReportedAt     time.Time  `json:"reported_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

func NewIncidentResponse(inc *domain.Incident) IncidentResponse {
	return IncidentResponse{
		IncidentID:     inc.IncidentID,
		ShipmentID:     inc.ShipmentID,
		VehicleID:      inc.VehicleID,
		IncidentType:   inc.Type,
		Description:    inc.Description,
		Action:         inc.Action,
		Severity:       string(inc.Severity),
		EstimatedDelay: inc.EstimatedDelay,
		Steps:          inc.Steps,
		NotifyCustomer: inc.NotifyCustomer,
		Summary:        inc.RecoverySummary,
		Status:         string(inc.Status),
		ReportedAt:     inc.ReportedAt,
		ResolvedAt:     inc.ResolvedAt,
	}
}

type ResolveResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	IncidentID string `json:"incident_id,omitempty"`
}

type WeatherResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Condition  string    `json:"condition"`
	TempC      float64   `json:"temp_c"`
	WindKph    float64   `json:"wind_kph"`
	Humidity   int       `json:"humidity"`
	Advisory   string    `json:"advisory"`
	Source     string    `json:"source"`
	ObservedAt time.Time `json:"observed_at"`
}

func NewWeatherResponse(r *domain.WeatherReading) WeatherResponse {
	return WeatherResponse{
		Lat:        r.Coordinates.Lat,
		Lng:        r.Coordinates.Lng,
		Condition:  r.Condition,
		TempC:      r.TempC,
		WindKph:    r.WindKph,
		Humidity:   r.Humidity,
		Advisory:   r.Advisory,
		Source:     r.Source,
		ObservedAt: r.ObservedAt,
	}
}
