package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/service"
)

type SettlementHandler struct {
	settlements service.SettlementService
}

func NewSettlementHandler(settlements service.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements}
}

type requestSettlementRequest struct {
	PartnershipID int64           `json:"partnership_id"`
	Type          string          `json:"settlement_type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Notes         string          `json:"notes"`
}

func (h *SettlementHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req requestSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	settlement, err := h.settlements.RequestSettlement(r.Context(), scopeFrom(r), service.RequestSettlementInput{
		PartnershipID: req.PartnershipID,
		Type:          domain.SettlementType(req.Type),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlement)
}

func (h *SettlementHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settlement id"})
		return
	}
	var req struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	settlement, err := h.settlements.ApproveSettlement(r.Context(), scopeFrom(r), id, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (h *SettlementHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settlement id"})
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	settlement, err := h.settlements.RejectSettlement(r.Context(), scopeFrom(r), id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (h *SettlementHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid settlement id"})
		return
	}
	settlement, err := h.settlements.CompleteSettlement(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlement)
}

func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	partnershipID, err := pathID(r, "partnershipID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partnership id"})
		return
	}
	status := domain.SettlementStatus(r.URL.Query().Get("status"))
	settlements, err := h.settlements.ListSettlements(r.Context(), scopeFrom(r), partnershipID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}
