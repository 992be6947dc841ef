package handlers

import (
	"errors"
	"log"
	"net/http"

	"logistics-dispatch-service/internal/api/dto"
	"logistics-dispatch-service/internal/ports"
)

// PlanHandler exposes the shipment planning endpoint. It validates the
// request shape, delegates the single planning call and maps the outcome
// to a status code; planning intelligence lives behind the port.
type PlanHandler struct {
	Planner ports.LogisticsPlanner
}

func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	if len(req.Orders) == 0 {
		writeError(w, r, http.StatusBadRequest, "Provide at least one order ID in 'orders' list.")
		return
	}

	plan, err := h.Planner.Plan(r.Context(), req.Orders)
	if err != nil {
		var infeasible *ports.InfeasiblePlanError
		if errors.As(err, &infeasible) {
			log.Printf("plan rejected: %v", err)
			writeError(w, r, http.StatusUnprocessableEntity, infeasible.Reason)
			return
		}

		log.Printf("plan logistics failed: %v", err)
		writeErrorDetail(w, r, http.StatusInternalServerError, "Internal server error.", err.Error())
		return
	}

	writeJSON(w, r, http.StatusOK, plan)
}
