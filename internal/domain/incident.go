package domain

import "time"

type IncidentStatus string

const (
	IncidentOpen     IncidentStatus = "OPEN"
	IncidentResolved IncidentStatus = "RESOLVED"
)

func (s IncidentStatus) Valid() bool {
	return s == IncidentOpen || s == IncidentResolved
}

// Severity assigned by the recovery planner.
type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "LOW"
	SeverityMedium   IncidentSeverity = "MEDIUM"
	SeverityHigh     IncidentSeverity = "HIGH"
	SeverityCritical IncidentSeverity = "CRITICAL"
)

func (s IncidentSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Represents a transport incident reported against an in-flight shipment,
// together with the recovery plan produced for it. Recovery fields are
// populated when the incident is reported and never rewritten afterwards.
type Incident struct {
	IncidentID  string
	ShipmentID  string
	VehicleID   string
	Type        string
	Description string

	Action          string
	Severity        IncidentSeverity
	EstimatedDelay  int
	Steps           []string
	NotifyCustomer  bool
	RecoverySummary string

	Status     IncidentStatus
	ReportedAt time.Time
	ResolvedAt *time.Time
}
