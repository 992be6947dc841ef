package services

import (
	"context"
	"time"

	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

// In-memory fakes shared by the service tests.

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func (f *fakeOrderRepo) GetOrders(ctx context.Context, orderIDs []string) ([]*domain.Order, error) {
	found := make([]*domain.Order, 0, len(orderIDs))
	seen := make(map[string]struct{})
	for _, id := range orderIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if o, ok := f.orders[id]; ok {
			found = append(found, o)
		}
	}
	return found, nil
}

type fakeShipmentRepo struct {
	shipments map[string]*domain.Shipment
	created   []*domain.Shipment

	markDeliveredErr error
}

func newFakeShipmentRepo(shipments ...*domain.Shipment) *fakeShipmentRepo {
	repo := &fakeShipmentRepo{shipments: make(map[string]*domain.Shipment)}
	for _, s := range shipments {
		repo.shipments[s.ShipmentID] = s
	}
	return repo
}

func (f *fakeShipmentRepo) CreateShipment(ctx context.Context, s *domain.Shipment) error {
	f.shipments[s.ShipmentID] = s
	f.created = append(f.created, s)
	return nil
}

func (f *fakeShipmentRepo) GetShipment(ctx context.Context, shipmentID string) (*domain.Shipment, error) {
	s, ok := f.shipments[shipmentID]
	if !ok {
		return nil, &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}
	return s, nil
}

func (f *fakeShipmentRepo) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	out := make([]*domain.Shipment, 0, len(f.shipments))
	for _, s := range f.shipments {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeShipmentRepo) ListActiveShipments(ctx context.Context) ([]*domain.Shipment, error) {
	out := make([]*domain.Shipment, 0)
	for _, s := range f.shipments {
		if s.Status.Active() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) MarkDelivered(ctx context.Context, shipmentID, verifiedBy string, at time.Time) error {
	if f.markDeliveredErr != nil {
		return f.markDeliveredErr
	}
	s, ok := f.shipments[shipmentID]
	if !ok {
		return &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}
	s.Status = domain.ShipmentDelivered
	s.VerifiedBy = verifiedBy
	s.VerifiedAt = &at
	return nil
}

func (f *fakeShipmentRepo) SetShipmentStatus(ctx context.Context, shipmentID string, status domain.ShipmentStatus) error {
	s, ok := f.shipments[shipmentID]
	if !ok {
		return &ports.NotFoundError{Kind: "shipment", ID: shipmentID}
	}
	s.Status = status
	return nil
}

type fakeIncidentRepo struct {
	incidents map[string]*domain.Incident
}

func newFakeIncidentRepo(incidents ...*domain.Incident) *fakeIncidentRepo {
	repo := &fakeIncidentRepo{incidents: make(map[string]*domain.Incident)}
	for _, inc := range incidents {
		repo.incidents[inc.IncidentID] = inc
	}
	return repo
}

func (f *fakeIncidentRepo) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	f.incidents[inc.IncidentID] = inc
	return nil
}

func (f *fakeIncidentRepo) GetIncident(ctx context.Context, incidentID string) (*domain.Incident, error) {
	inc, ok := f.incidents[incidentID]
	if !ok {
		return nil, &ports.NotFoundError{Kind: "incident", ID: incidentID}
	}
	return inc, nil
}

func (f *fakeIncidentRepo) ListIncidents(ctx context.Context) ([]*domain.Incident, error) {
	out := make([]*domain.Incident, 0, len(f.incidents))
	for _, inc := range f.incidents {
		out = append(out, inc)
	}
	return out, nil
}

func (f *fakeIncidentRepo) ListOpenIncidents(ctx context.Context) ([]*domain.Incident, error) {
	out := make([]*domain.Incident, 0)
	for _, inc := range f.incidents {
		if inc.Status == domain.IncidentOpen {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (f *fakeIncidentRepo) ResolveIncident(ctx context.Context, incidentID string, at time.Time) error {
	inc, ok := f.incidents[incidentID]
	if !ok || inc.Status != domain.IncidentOpen {
		return &ports.NotFoundError{Kind: "incident", ID: incidentID}
	}
	inc.Status = domain.IncidentResolved
	inc.ResolvedAt = &at
	return nil
}

func (f *fakeIncidentRepo) CountOpenForShipment(ctx context.Context, shipmentID string) (int, error) {
	n := 0
	for _, inc := range f.incidents {
		if inc.ShipmentID == shipmentID && inc.Status == domain.IncidentOpen {
			n++
		}
	}
	return n, nil
}

// fakeModel replays a canned completion and records the last request.
type fakeModel struct {
	response string
	err      error
	calls    int
	lastReq  ports.CompletionRequest
}

func (f *fakeModel) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
