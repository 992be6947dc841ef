package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/platform/obs"
	"logistics-dispatch-service/internal/ports"
)

const recoverySystemPrompt = `You are a transport incident recovery planner. Given an incident on an
in-flight shipment, decide the recovery action. Respond with JSON only:
{
  "action": "REROUTE | REPLACE_VEHICLE | DELAY | ESCALATE",
  "severity": "LOW | MEDIUM | HIGH | CRITICAL",
  "estimated_delay_min": 45,
  "steps": ["ordered recovery steps"],
  "notify_customer": true,
  "summary": "one line summary for dispatch"
}`

// Shape the model is asked to produce for an incident.
type modelRecovery struct {
	Action         string   `json:"action"`
	Severity       string   `json:"severity"`
	EstimatedDelay int      `json:"estimated_delay_min"`
	Steps          []string `json:"steps"`
	NotifyCustomer bool     `json:"notify_customer"`
	Summary        string   `json:"summary"`
}

// Recovery handles transport incident reporting and resolution. A report
// records the incident, asks the shared model for a recovery plan and
// flips the shipment to INCIDENT; resolving the last open incident for a
// shipment puts it back IN_TRANSIT.
type Recovery struct {
	Shipments ports.ShipmentRepository
	Incidents ports.IncidentRepository
	Model     ports.CompletionProvider

	Now func() time.Time
}

func (r *Recovery) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// Report records an incident with a model-produced recovery plan.
func (r *Recovery) Report(ctx context.Context, report ports.IncidentReport) (_ *domain.Incident, err error) {
	defer obs.Time(ctx, "recovery.Report")(&err)

	s, err := r.Shipments.GetShipment(ctx, report.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("report incident: load shipment %s: %w", report.ShipmentID, err)
	}

	raw, err := r.Model.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: recoverySystemPrompt,
		Prompt:       buildRecoveryPrompt(s, report),
		MaxTokens:    1024,
		Temperature:  0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("report incident: model call: %w", err)
	}

	var mr modelRecovery
	if err := decodeModelJSON(raw, &mr); err != nil {
		return nil, fmt.Errorf("report incident: parse recovery plan: %w", err)
	}

	severity := domain.IncidentSeverity(mr.Severity)
	if !severity.Valid() {
		severity = domain.SeverityMedium
	}

	inc := &domain.Incident{
		IncidentID:      "INC-" + shortID(),
		ShipmentID:      report.ShipmentID,
		VehicleID:       report.VehicleID,
		Type:            report.Type,
		Description:     report.Description,
		Action:          mr.Action,
		Severity:        severity,
		EstimatedDelay:  mr.EstimatedDelay,
		Steps:           mr.Steps,
		NotifyCustomer:  mr.NotifyCustomer,
		RecoverySummary: mr.Summary,
		Status:          domain.IncidentOpen,
		ReportedAt:      r.now(),
	}

	if err := r.Incidents.CreateIncident(ctx, inc); err != nil {
		return nil, fmt.Errorf("report incident: persist incident: %w", err)
	}

	if s.Status != domain.ShipmentIncident {
		if err := r.Shipments.SetShipmentStatus(ctx, s.ShipmentID, domain.ShipmentIncident); err != nil {
			return nil, fmt.Errorf("report incident: flag shipment %s: %w", s.ShipmentID, err)
		}
	}

	return inc, nil
}

// Resolve closes an open incident. Unknown or already-resolved IDs yield
// an unsuccessful result rather than an error.
func (r *Recovery) Resolve(ctx context.Context, incidentID string) (_ ports.ResolveResult, err error) {
	defer obs.Time(ctx, "recovery.Resolve")(&err)

	inc, err := r.Incidents.GetIncident(ctx, incidentID)
	if err != nil {
		var nf *ports.NotFoundError
		if errors.As(err, &nf) {
			return ports.ResolveResult{
				Success: false,
				Message: fmt.Sprintf("Incident %s not found.", incidentID),
			}, nil
		}
		return ports.ResolveResult{}, fmt.Errorf("resolve incident: load %s: %w", incidentID, err)
	}

	if inc.Status == domain.IncidentResolved {
		return ports.ResolveResult{
			Success: false,
			Message: fmt.Sprintf("Incident %s is already resolved.", incidentID),
		}, nil
	}

	if err := r.Incidents.ResolveIncident(ctx, incidentID, r.now()); err != nil {
		return ports.ResolveResult{}, fmt.Errorf("resolve incident %s: %w", incidentID, err)
	}

	// Release the shipment once no other incident holds it.
	open, err := r.Incidents.CountOpenForShipment(ctx, inc.ShipmentID)
	if err != nil {
		return ports.ResolveResult{}, fmt.Errorf("resolve incident: count open for %s: %w", inc.ShipmentID, err)
	}
	if open == 0 {
		s, err := r.Shipments.GetShipment(ctx, inc.ShipmentID)
		if err != nil {
			// Incident is resolved either way; a missing shipment only
			// loses the status restore.
			log.Printf("resolve incident: shipment lookup failed id=%s err=%v", inc.ShipmentID, err)
		} else if s.Status == domain.ShipmentIncident {
			if err := r.Shipments.SetShipmentStatus(ctx, s.ShipmentID, domain.ShipmentInTransit); err != nil {
				return ports.ResolveResult{}, fmt.Errorf("resolve incident: release shipment %s: %w", s.ShipmentID, err)
			}
		}
	}

	return ports.ResolveResult{
		Success:    true,
		Message:    fmt.Sprintf("Incident %s resolved.", incidentID),
		IncidentID: incidentID,
	}, nil
}

func (r *Recovery) AllIncidents(ctx context.Context) ([]*domain.Incident, error) {
	return r.Incidents.ListIncidents(ctx)
}

func (r *Recovery) OpenIncidents(ctx context.Context) ([]*domain.Incident, error) {
	return r.Incidents.ListOpenIncidents(ctx)
}

func buildRecoveryPrompt(s *domain.Shipment, report ports.IncidentReport) string {
	return fmt.Sprintf(
		"Incident on shipment %s (vehicle %s, %d orders, eta %d min):\ntype: %s\ndescription: %s",
		s.ShipmentID, report.VehicleID, len(s.OrderIDs), s.EtaMinutes,
		report.Type, report.Description,
	)
}
