package handlers

import (
	"log"
	"net/http"
	"strings"

	"logistics-dispatch-service/internal/api/dto"
	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

// IncidentHandler exposes transport incident reporting and resolution.
type IncidentHandler struct {
	Incidents ports.IncidentService
}

func (h *IncidentHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ReportIncidentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	required := []struct {
		name  string
		value string
	}{
		{"shipment_id", req.ShipmentID},
		{"vehicle_id", req.VehicleID},
		{"incident_type", req.IncidentType},
		{"description", req.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			writeError(w, r, http.StatusBadRequest, "Missing required field: '"+f.name+"'.")
			return
		}
	}

	inc, err := h.Incidents.Report(r.Context(), ports.IncidentReport{
		ShipmentID:  strings.TrimSpace(req.ShipmentID),
		VehicleID:   strings.TrimSpace(req.VehicleID),
		Type:        strings.ToUpper(strings.TrimSpace(req.IncidentType)),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		log.Printf("report incident failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewIncidentResponse(inc))
}

func (h *IncidentHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ResolveIncidentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	incidentID := strings.TrimSpace(req.IncidentID)
	if incidentID == "" {
		writeError(w, r, http.StatusBadRequest, "Provide 'incident_id'.")
		return
	}

	result, err := h.Incidents.Resolve(r.Context(), incidentID)
	if err != nil {
		log.Printf("resolve incident failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusNotFound
	}

	writeJSON(w, r, status, dto.ResolveResponse{
		Success:    result.Success,
		Message:    result.Message,
		IncidentID: result.IncidentID,
	})
}

func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *IncidentHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *IncidentHandler) list(w http.ResponseWriter, r *http.Request, openOnly bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		incidents []*domain.Incident
		err       error
	)
	if openOnly {
		incidents, err = h.Incidents.OpenIncidents(r.Context())
	} else {
		incidents, err = h.Incidents.AllIncidents(r.Context())
	}
	if err != nil {
		log.Printf("list incidents failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		res = append(res, dto.NewIncidentResponse(inc))
	}

	writeJSON(w, r, http.StatusOK, res)
}
