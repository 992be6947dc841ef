package api

import (
	"net/http"

	"logistics-dispatch-service/internal/api/handlers"
	"logistics-dispatch-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	planner ports.LogisticsPlanner,
	verifier ports.DeliveryVerifier,
	incidents ports.IncidentService,
	weather ports.WeatherService,
) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{Planner: planner}
	deliveryHandler := &handlers.DeliveryHandler{Verifier: verifier}
	incidentHandler := &handlers.IncidentHandler{Incidents: incidents}
	weatherHandler := &handlers.WeatherHandler{Weather: weather}
	pages := handlers.Pages{}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/logistics", pages.Dashboard)
	mux.HandleFunc("/logistics/sim", pages.Simulator)

	mux.HandleFunc("/logistics/plan", planHandler.Plan)

	mux.HandleFunc("/logistics/delivery/verify", deliveryHandler.Verify)
	mux.HandleFunc("/logistics/shipments", deliveryHandler.List)
	mux.HandleFunc("/logistics/shipments/active", deliveryHandler.ListActive)

	mux.HandleFunc("/logistics/incident/report", incidentHandler.Report)
	mux.HandleFunc("/logistics/incident/resolve", incidentHandler.Resolve)
	mux.HandleFunc("/logistics/incidents", incidentHandler.List)
	mux.HandleFunc("/logistics/incidents/open", incidentHandler.ListOpen)

	mux.HandleFunc("/logistics/weather", weatherHandler.Get)

	return requestIDMiddleware(loggingMiddleware(mux))
}
