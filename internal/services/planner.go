package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/platform/obs"
	"logistics-dispatch-service/internal/ports"
)

const plannerSystemPrompt = `You are a logistics dispatch planner. Given customer orders with
destinations, weights and priorities, group them into vehicle loads and
plan delivery routes. Respond with JSON only, no prose, in this shape:
{
  "feasible": true,
  "reason": "",
  "summary": "one line overview",
  "shipments": [
    {
      "vehicle_id": "V1",
      "orders": ["O001"],
      "route": [{"from": "Depot", "to": "destination", "eta_minutes": 30}],
      "eta_minutes": 30
    }
  ]
}
If the orders cannot be dispatched together, set "feasible" to false and
explain in "reason". Every order must appear in exactly one shipment.`

// Shape the model is asked to produce for a planning run.
type modelPlan struct {
	Feasible  bool   `json:"feasible"`
	Reason    string `json:"reason"`
	Summary   string `json:"summary"`
	Shipments []struct {
		VehicleID  string            `json:"vehicle_id"`
		Orders     []string          `json:"orders"`
		Route      []domain.RouteLeg `json:"route"`
		EtaMinutes int               `json:"eta_minutes"`
	} `json:"shipments"`
}

// Planner turns order IDs into persisted shipments. It coordinates:
//   - order lookup and validation
//   - one model call for vehicle assignment and routing
//   - shipment ID / delivery PIN generation
//   - shipment persistence
//
// Infeasible requests surface as *ports.InfeasiblePlanError so the API
// layer can distinguish them from internal failures.
type Planner struct {
	Orders    ports.OrderRepository
	Shipments ports.ShipmentRepository
	Model     ports.CompletionProvider

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (p *Planner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Plan dispatches the given orders into shipments.
func (p *Planner) Plan(ctx context.Context, orderIDs []string) (_ *domain.DispatchPlan, err error) {
	defer obs.Time(ctx, "planner.Plan")(&err)

	if len(orderIDs) == 0 {
		return nil, &ports.InfeasiblePlanError{Reason: "no orders requested"}
	}

	orders, err := p.Orders.GetOrders(ctx, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("plan logistics: load orders: %w", err)
	}

	known := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		known[o.OrderID] = struct{}{}
	}

	missing := make([]string, 0)
	for _, id := range orderIDs {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &ports.InfeasiblePlanError{
			Reason: fmt.Sprintf("unknown order IDs: %s", strings.Join(missing, ", ")),
		}
	}

	raw, err := p.Model.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: plannerSystemPrompt,
		Prompt:       buildPlannerPrompt(orders),
		MaxTokens:    2048,
		Temperature:  0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("plan logistics: model call: %w", err)
	}

	var mp modelPlan
	if err := decodeModelJSON(raw, &mp); err != nil {
		return nil, fmt.Errorf("plan logistics: parse model plan: %w", err)
	}

	if !mp.Feasible {
		reason := mp.Reason
		if reason == "" {
			reason = "model declared the plan infeasible"
		}
		return nil, &ports.InfeasiblePlanError{Reason: reason}
	}
	if len(mp.Shipments) == 0 {
		return nil, fmt.Errorf("plan logistics: model returned no shipments")
	}

	now := p.now()
	plan := &domain.DispatchPlan{
		PlanID:      "PLN-" + shortID(),
		Summary:     mp.Summary,
		GeneratedAt: now,
	}

	for i, ms := range mp.Shipments {
		if len(ms.Orders) == 0 {
			return nil, fmt.Errorf("plan logistics: model shipment #%d has no orders", i+1)
		}

		pin, err := newDeliveryPIN()
		if err != nil {
			return nil, fmt.Errorf("plan logistics: generate pin: %w", err)
		}

		vehicleID := ms.VehicleID
		if vehicleID == "" {
			vehicleID = fmt.Sprintf("V%d", i+1)
		}

		s := &domain.Shipment{
			ShipmentID:  "SHP-" + shortID(),
			VehicleID:   vehicleID,
			OrderIDs:    ms.Orders,
			Route:       ms.Route,
			EtaMinutes:  ms.EtaMinutes,
			DeliveryPIN: pin,
			Status:      domain.ShipmentInTransit,
			CreatedAt:   now,
		}

		if err := p.Shipments.CreateShipment(ctx, s); err != nil {
			return nil, fmt.Errorf("plan logistics: persist shipment %s: %w", s.ShipmentID, err)
		}

		plan.Shipments = append(plan.Shipments, domain.PlannedShipment{
			ShipmentID:  s.ShipmentID,
			VehicleID:   s.VehicleID,
			OrderIDs:    s.OrderIDs,
			Route:       s.Route,
			EtaMinutes:  s.EtaMinutes,
			DeliveryPIN: s.DeliveryPIN,
		})
	}

	return plan, nil
}

func buildPlannerPrompt(orders []*domain.Order) string {
	var b strings.Builder
	b.WriteString("Plan dispatch for these orders:\n")
	for _, o := range orders {
		fmt.Fprintf(&b, "- %s: destination=%q weight_kg=%.1f priority=%s\n",
			o.OrderID, o.Destination, o.WeightKg, o.Priority)
	}
	return b.String()
}

// shortID returns the first 8 hex chars of a UUID, upper-cased, matching
// the SHP-/INC- identifier style used across the API.
func shortID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// newDeliveryPIN returns a 4-digit PIN from crypto/rand.
func newDeliveryPIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}

// decodeModelJSON parses a model response that may be wrapped in a
// markdown code fence.
func decodeModelJSON(raw string, v any) error {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("decode model json: %w", err)
	}
	return nil
}
