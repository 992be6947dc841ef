package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

var (
	shipmentIDPattern = regexp.MustCompile(`^SHP-[0-9A-F]{8}$`)
	planIDPattern     = regexp.MustCompile(`^PLN-[0-9A-F]{8}$`)
	pinPattern        = regexp.MustCompile(`^[0-9]{4}$`)
)

func testOrders() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{
		"O001": {OrderID: "O001", Destination: "Indiranagar", WeightKg: 12.5, Priority: "HIGH"},
		"O002": {OrderID: "O002", Destination: "Whitefield", WeightKg: 3.0, Priority: "NORMAL"},
	}}
}

const feasiblePlanJSON = `{
	"feasible": true,
	"reason": "",
	"summary": "two orders on one van",
	"shipments": [
		{
			"vehicle_id": "V1",
			"orders": ["O001", "O002"],
			"route": [
				{"from": "Depot", "to": "Indiranagar", "eta_minutes": 30},
				{"from": "Indiranagar", "to": "Whitefield", "eta_minutes": 25}
			],
			"eta_minutes": 55
		}
	]
}`

func TestPlannerPersistsShipments(t *testing.T) {
	shipments := newFakeShipmentRepo()
	model := &fakeModel{response: feasiblePlanJSON}
	now := time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

	p := &Planner{
		Orders:    testOrders(),
		Shipments: shipments,
		Model:     model,
		Now:       func() time.Time { return now },
	}

	plan, err := p.Plan(context.Background(), []string{"O001", "O002"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if !planIDPattern.MatchString(plan.PlanID) {
		t.Fatalf("plan ID %q does not match PLN-XXXXXXXX", plan.PlanID)
	}
	if plan.Summary != "two orders on one van" {
		t.Fatalf("summary = %q", plan.Summary)
	}
	if !plan.GeneratedAt.Equal(now) {
		t.Fatalf("generated_at = %v, want %v", plan.GeneratedAt, now)
	}

	if len(plan.Shipments) != 1 {
		t.Fatalf("shipments = %d, want 1", len(plan.Shipments))
	}
	ps := plan.Shipments[0]
	if !shipmentIDPattern.MatchString(ps.ShipmentID) {
		t.Fatalf("shipment ID %q does not match SHP-XXXXXXXX", ps.ShipmentID)
	}
	if !pinPattern.MatchString(ps.DeliveryPIN) {
		t.Fatalf("PIN %q is not 4 digits", ps.DeliveryPIN)
	}
	if ps.EtaMinutes != 55 || len(ps.Route) != 2 {
		t.Fatalf("route/eta not carried over: %+v", ps)
	}

	if len(shipments.created) != 1 {
		t.Fatalf("persisted %d shipments, want 1", len(shipments.created))
	}
	stored := shipments.created[0]
	if stored.Status != domain.ShipmentInTransit {
		t.Fatalf("stored status = %s, want IN_TRANSIT", stored.Status)
	}
	if stored.ShipmentID != ps.ShipmentID || stored.DeliveryPIN != ps.DeliveryPIN {
		t.Fatalf("stored shipment differs from plan payload")
	}
}

func TestPlannerParsesFencedJSON(t *testing.T) {
	model := &fakeModel{response: "```json\n" + feasiblePlanJSON + "\n```"}

	p := &Planner{
		Orders:    testOrders(),
		Shipments: newFakeShipmentRepo(),
		Model:     model,
	}

	plan, err := p.Plan(context.Background(), []string{"O001", "O002"})
	if err != nil {
		t.Fatalf("Plan with fenced response: %v", err)
	}
	if len(plan.Shipments) != 1 {
		t.Fatalf("shipments = %d, want 1", len(plan.Shipments))
	}
}

func TestPlannerUnknownOrders(t *testing.T) {
	model := &fakeModel{response: feasiblePlanJSON}
	p := &Planner{
		Orders:    testOrders(),
		Shipments: newFakeShipmentRepo(),
		Model:     model,
	}

	_, err := p.Plan(context.Background(), []string{"O001", "O999"})

	var infeasible *ports.InfeasiblePlanError
	if !errors.As(err, &infeasible) {
		t.Fatalf("err = %v, want InfeasiblePlanError", err)
	}
	if !strings.Contains(infeasible.Reason, "O999") {
		t.Fatalf("reason = %q, want mention of O999", infeasible.Reason)
	}
	if model.calls != 0 {
		t.Fatalf("model called %d times for unknown orders, want 0", model.calls)
	}
}

func TestPlannerInfeasibleFromModel(t *testing.T) {
	shipments := newFakeShipmentRepo()
	p := &Planner{
		Orders:    testOrders(),
		Shipments: shipments,
		Model: &fakeModel{response: `{
			"feasible": false,
			"reason": "combined weight exceeds fleet capacity",
			"summary": "",
			"shipments": []
		}`},
	}

	_, err := p.Plan(context.Background(), []string{"O001"})

	var infeasible *ports.InfeasiblePlanError
	if !errors.As(err, &infeasible) {
		t.Fatalf("err = %v, want InfeasiblePlanError", err)
	}
	if infeasible.Reason != "combined weight exceeds fleet capacity" {
		t.Fatalf("reason = %q", infeasible.Reason)
	}
	if len(shipments.created) != 0 {
		t.Fatalf("persisted %d shipments for infeasible plan, want 0", len(shipments.created))
	}
}

func TestPlannerModelFailure(t *testing.T) {
	p := &Planner{
		Orders:    testOrders(),
		Shipments: newFakeShipmentRepo(),
		Model:     &fakeModel{err: errors.New("upstream timeout")},
	}

	_, err := p.Plan(context.Background(), []string{"O001"})
	if err == nil {
		t.Fatal("expected error")
	}

	var infeasible *ports.InfeasiblePlanError
	if errors.As(err, &infeasible) {
		t.Fatalf("model failure classified as infeasible: %v", err)
	}
}

func TestPlannerGarbageModelOutput(t *testing.T) {
	p := &Planner{
		Orders:    testOrders(),
		Shipments: newFakeShipmentRepo(),
		Model:     &fakeModel{response: "sorry, I cannot help with that"},
	}

	_, err := p.Plan(context.Background(), []string{"O001"})
	if err == nil {
		t.Fatal("expected parse error for non-JSON model output")
	}
}

func TestDecodeModelJSONFenceVariants(t *testing.T) {
	cases := []string{
		`{"feasible": true}`,
		"```json\n{\"feasible\": true}\n```",
		"```\n{\"feasible\": true}\n```",
		"  ```json\n{\"feasible\": true}\n```  ",
	}

	for _, raw := range cases {
		var mp modelPlan
		if err := decodeModelJSON(raw, &mp); err != nil {
			t.Fatalf("decodeModelJSON(%q): %v", raw, err)
		}
		if !mp.Feasible {
			t.Fatalf("decodeModelJSON(%q): feasible not parsed", raw)
		}
	}
}

func TestNewDeliveryPINFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		pin, err := newDeliveryPIN()
		if err != nil {
			t.Fatalf("newDeliveryPIN: %v", err)
		}
		if !pinPattern.MatchString(pin) {
			t.Fatalf("PIN %q is not exactly 4 digits", pin)
		}
	}
}
