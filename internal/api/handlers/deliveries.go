package handlers

import (
	"log"
	"net/http"
	"strings"

	"logistics-dispatch-service/internal/api/dto"
	"logistics-dispatch-service/internal/domain"
	"logistics-dispatch-service/internal/ports"
)

// DeliveryHandler exposes PIN verification and shipment listing.
type DeliveryHandler struct {
	Verifier ports.DeliveryVerifier
}

func (h *DeliveryHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.VerifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	shipmentID := strings.TrimSpace(req.ShipmentID)
	pin := string(req.Pin)
	if shipmentID == "" || pin == "" {
		writeError(w, r, http.StatusBadRequest, "Provide 'shipment_id' and 'pin'.")
		return
	}

	verifiedBy := strings.TrimSpace(req.VerifiedBy)
	if verifiedBy == "" {
		verifiedBy = "driver"
	}

	result, err := h.Verifier.VerifyPIN(r.Context(), shipmentID, pin, verifiedBy)
	if err != nil {
		log.Printf("verify delivery failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}

	writeJSON(w, r, status, dto.VerifyResponse{
		Success: result.Success,
		Message: result.Message,
		Status:  string(result.Status),
	})
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *DeliveryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *DeliveryHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var (
		shipments []*domain.Shipment
		err       error
	)
	if activeOnly {
		shipments, err = h.Verifier.ActiveShipments(r.Context())
	} else {
		shipments, err = h.Verifier.AllShipments(r.Context())
	}
	if err != nil {
		log.Printf("list shipments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.ShipmentResponse, 0, len(shipments))
	for _, s := range shipments {
		res = append(res, dto.NewShipmentResponse(s))
	}

	writeJSON(w, r, http.StatusOK, res)
}
