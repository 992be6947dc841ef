package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"logistics-dispatch-service/internal/api/dto"
	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

type stubPlanner struct {
	calls int
	plan  *domain.DispatchPlan
	err   error
}

func (s *stubPlanner) Plan(ctx context.Context, orderIDs []string) (*domain.DispatchPlan, error) {
	s.calls++
	return s.plan, s.err
}

type stubVerifier struct {
	calls  int
	result ports.VerifyResult
	err    error

	shipments []*domain.Shipment
	listCalls int
}

func (s *stubVerifier) VerifyPIN(ctx context.Context, shipmentID, pin, verifiedBy string) (ports.VerifyResult, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubVerifier) AllShipments(ctx context.Context) ([]*domain.Shipment, error) {
	s.listCalls++
	return s.shipments, nil
}

func (s *stubVerifier) ActiveShipments(ctx context.Context) ([]*domain.Shipment, error) {
	s.listCalls++
	active := make([]*domain.Shipment, 0)
	for _, sh := range s.shipments {
		if sh.Status.Active() {
			active = append(active, sh)
		}
	}
	return active, nil
}

type stubIncidents struct {
	reportCalls  int
	lastReport   ports.IncidentReport
	incident     *domain.Incident
	reportErr    error
	resolveCalls int
	resolve      ports.ResolveResult
	incidents    []*domain.Incident
}

func (s *stubIncidents) Report(ctx context.Context, report ports.IncidentReport) (*domain.Incident, error) {
	s.reportCalls++
	s.lastReport = report
	return s.incident, s.reportErr
}

func (s *stubIncidents) Resolve(ctx context.Context, incidentID string) (ports.ResolveResult, error) {
	s.resolveCalls++
	return s.resolve, nil
}

func (s *stubIncidents) AllIncidents(ctx context.Context) ([]*domain.Incident, error) {
	return s.incidents, nil
}

func (s *stubIncidents) OpenIncidents(ctx context.Context) ([]*domain.Incident, error) {
	open := make([]*domain.Incident, 0)
	for _, inc := range s.incidents {
		if inc.Status == domain.IncidentOpen {
			open = append(open, inc)
		}
	}
	return open, nil
}

type stubWeather struct {
	calls   int
	lastLat float64
	lastLng float64
}

func (s *stubWeather) Reading(ctx context.Context, lat, lng float64) (*domain.WeatherReading, error) {
	s.calls++
	s.lastLat = lat
	s.lastLng = lng
	return &domain.WeatherReading{
		Coordinates: domain.Coordinates{Lat: lat, Lng: lng},
		Condition:   "Clear",
		Source:      "mock",
		ObservedAt:  time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}, nil
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeMap(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return m
}

func TestPlanEmptyOrders(t *testing.T) {
	planner := &stubPlanner{}
	h := &PlanHandler{Planner: planner}

	rec := postJSON(t, h.Plan, "/logistics/plan", `{"orders": []}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if planner.calls != 0 {
		t.Fatalf("planner called %d times, want 0", planner.calls)
	}

	body := decodeMap(t, rec)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "at least one order") {
		t.Fatalf("error = %q, want mention of at least one order", msg)
	}
}

func TestPlanSuccessReturnsPayload(t *testing.T) {
	plan := &domain.DispatchPlan{
		PlanID:  "PLN-TEST0001",
		Summary: "single van run",
		Shipments: []domain.PlannedShipment{
			{
				ShipmentID:  "SHP-AAAA1111",
				VehicleID:   "V1",
				OrderIDs:    []string{"O001"},
				Route:       []domain.RouteLeg{{From: "Depot", To: "Indiranagar", EtaMinutes: 35}},
				EtaMinutes:  35,
				DeliveryPIN: "4821",
			},
		},
		GeneratedAt: time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC),
	}
	planner := &stubPlanner{plan: plan}
	h := &PlanHandler{Planner: planner}

	rec := postJSON(t, h.Plan, "/logistics/plan", `{"orders": ["O001"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if planner.calls != 1 {
		t.Fatalf("planner called %d times, want 1", planner.calls)
	}

	var got domain.DispatchPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if got.PlanID != plan.PlanID {
		t.Fatalf("plan_id = %q, want %q", got.PlanID, plan.PlanID)
	}
	if len(got.Shipments) != 1 || got.Shipments[0].DeliveryPIN != "4821" {
		t.Fatalf("plan payload altered: %+v", got.Shipments)
	}
}

func TestPlanInfeasible(t *testing.T) {
	planner := &stubPlanner{err: &ports.InfeasiblePlanError{Reason: "no feasible route"}}
	h := &PlanHandler{Planner: planner}

	rec := postJSON(t, h.Plan, "/logistics/plan", `{"orders": ["O001"]}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	body := decodeMap(t, rec)
	if body["error"] != "no feasible route" {
		t.Fatalf(`body = %v, want {"error": "no feasible route"}`, body)
	}
}

func TestPlanInternalError(t *testing.T) {
	planner := &stubPlanner{err: errors.New("model exploded")}
	h := &PlanHandler{Planner: planner}

	rec := postJSON(t, h.Plan, "/logistics/plan", `{"orders": ["O001"]}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	body := decodeMap(t, rec)
	if detail, _ := body["detail"].(string); !strings.Contains(detail, "model exploded") {
		t.Fatalf("detail = %q, want failure detail", detail)
	}
}

func TestVerifyMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"no shipment", `{"pin": "1234"}`},
		{"no pin", `{"shipment_id": "SHP-AAAA1111"}`},
		{"empty", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &stubVerifier{}
			h := &DeliveryHandler{Verifier: verifier}

			rec := postJSON(t, h.Verify, "/logistics/delivery/verify", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if verifier.calls != 0 {
				t.Fatalf("verifier called %d times, want 0", verifier.calls)
			}
		})
	}
}

func TestVerifySuccess(t *testing.T) {
	verifier := &stubVerifier{result: ports.VerifyResult{
		Success: true,
		Message: "Shipment SHP-AAAA1111 delivered. Verified by driver.",
		Status:  domain.ShipmentDelivered,
	}}
	h := &DeliveryHandler{Verifier: verifier}

	rec := postJSON(t, h.Verify, "/logistics/delivery/verify",
		`{"shipment_id": "SHP-AAAA1111", "pin": "4821"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.VerifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success || res.Status != "DELIVERED" {
		t.Fatalf("response = %+v, want success with DELIVERED", res)
	}
}

func TestVerifyWrongPin(t *testing.T) {
	verifier := &stubVerifier{result: ports.VerifyResult{
		Success: false,
		Message: "Incorrect delivery PIN.",
		Status:  domain.ShipmentInTransit,
	}}
	h := &DeliveryHandler{Verifier: verifier}

	rec := postJSON(t, h.Verify, "/logistics/delivery/verify",
		`{"shipment_id": "SHP-AAAA1111", "pin": "0000"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestVerifyNumericPinAccepted(t *testing.T) {
	verifier := &stubVerifier{result: ports.VerifyResult{Success: true, Status: domain.ShipmentDelivered}}
	h := &DeliveryHandler{Verifier: verifier}

	rec := postJSON(t, h.Verify, "/logistics/delivery/verify",
		`{"shipment_id": "SHP-AAAA1111", "pin": 4821}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if verifier.calls != 1 {
		t.Fatalf("verifier called %d times, want 1", verifier.calls)
	}
}

func TestReportIncidentMissingField(t *testing.T) {
	fields := []string{"shipment_id", "vehicle_id", "incident_type", "description"}

	full := map[string]string{
		"shipment_id":   "SHP-AAAA1111",
		"vehicle_id":    "V2",
		"incident_type": "PUNCTURE",
		"description":   "Front tyre burst near Highway 44",
	}

	for _, missing := range fields {
		t.Run(missing, func(t *testing.T) {
			body := make(map[string]string, len(full)-1)
			for k, v := range full {
				if k != missing {
					body[k] = v
				}
			}
			raw, _ := json.Marshal(body)

			incidents := &stubIncidents{}
			h := &IncidentHandler{Incidents: incidents}

			rec := postJSON(t, h.Report, "/logistics/incident/report", string(raw))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if incidents.reportCalls != 0 {
				t.Fatalf("service called %d times, want 0", incidents.reportCalls)
			}

			res := decodeMap(t, rec)
			if msg, _ := res["error"].(string); !strings.Contains(msg, missing) {
				t.Fatalf("error = %q, want mention of %q", msg, missing)
			}
		})
	}
}

func TestReportIncidentNormalizesType(t *testing.T) {
	incidents := &stubIncidents{incident: &domain.Incident{
		IncidentID: "INC-BBBB2222",
		ShipmentID: "SHP-AAAA1111",
		Status:     domain.IncidentOpen,
		Severity:   domain.SeverityMedium,
		Steps:      []string{"dispatch replacement"},
	}}
	h := &IncidentHandler{Incidents: incidents}

	rec := postJSON(t, h.Report, "/logistics/incident/report", `{
		"shipment_id": "SHP-AAAA1111",
		"vehicle_id": "V2",
		"incident_type": "puncture",
		"description": "Front tyre burst near Highway 44"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rec.Code, rec.Body.String())
	}
	if incidents.lastReport.Type != "PUNCTURE" {
		t.Fatalf("delegated type = %q, want PUNCTURE", incidents.lastReport.Type)
	}
}

func TestResolveIncidentNotFound(t *testing.T) {
	incidents := &stubIncidents{resolve: ports.ResolveResult{
		Success: false,
		Message: "Incident INC-XXXX not found.",
	}}
	h := &IncidentHandler{Incidents: incidents}

	rec := postJSON(t, h.Resolve, "/logistics/incident/resolve", `{"incident_id": "INC-XXXX"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestResolveIncidentMissingID(t *testing.T) {
	incidents := &stubIncidents{}
	h := &IncidentHandler{Incidents: incidents}

	rec := postJSON(t, h.Resolve, "/logistics/incident/resolve", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if incidents.resolveCalls != 0 {
		t.Fatalf("service called %d times, want 0", incidents.resolveCalls)
	}
}

func TestWeatherNonNumeric(t *testing.T) {
	weather := &stubWeather{}
	h := &WeatherHandler{Weather: weather}

	req := httptest.NewRequest(http.MethodGet, "/logistics/weather?lat=abc", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if weather.calls != 0 {
		t.Fatalf("service called %d times, want 0", weather.calls)
	}
}

func TestWeatherDefaults(t *testing.T) {
	weather := &stubWeather{}
	h := &WeatherHandler{Weather: weather}

	req := httptest.NewRequest(http.MethodGet, "/logistics/weather", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if weather.lastLat != defaultLat || weather.lastLng != defaultLng {
		t.Fatalf("coords = (%v, %v), want defaults (%v, %v)",
			weather.lastLat, weather.lastLng, defaultLat, defaultLng)
	}
}

func TestListShipmentsHidesPIN(t *testing.T) {
	verifier := &stubVerifier{shipments: []*domain.Shipment{
		{
			ShipmentID:  "SHP-AAAA1111",
			VehicleID:   "V1",
			OrderIDs:    []string{"O001"},
			Route:       []domain.RouteLeg{},
			DeliveryPIN: "4821",
			Status:      domain.ShipmentInTransit,
		},
	}}
	h := &DeliveryHandler{Verifier: verifier}

	req := httptest.NewRequest(http.MethodGet, "/logistics/shipments", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "4821") {
		t.Fatalf("shipment listing leaked the delivery PIN: %s", rec.Body.String())
	}
}

func TestActiveShipmentsFilters(t *testing.T) {
	verifier := &stubVerifier{shipments: []*domain.Shipment{
		{ShipmentID: "SHP-A", OrderIDs: []string{"O001"}, Route: []domain.RouteLeg{}, Status: domain.ShipmentInTransit},
		{ShipmentID: "SHP-B", OrderIDs: []string{"O002"}, Route: []domain.RouteLeg{}, Status: domain.ShipmentDelivered},
		{ShipmentID: "SHP-C", OrderIDs: []string{"O003"}, Route: []domain.RouteLeg{}, Status: domain.ShipmentIncident},
	}}
	h := &DeliveryHandler{Verifier: verifier}

	req := httptest.NewRequest(http.MethodGet, "/logistics/shipments/active", nil)
	rec := httptest.NewRecorder()
	h.ListActive(rec, req)

	var res []dto.ShipmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res) != 2 {
		t.Fatalf("active count = %d, want 2", len(res))
	}
	for _, s := range res {
		if s.Status == "DELIVERED" {
			t.Fatalf("delivered shipment %s in active listing", s.ShipmentID)
		}
	}
}
