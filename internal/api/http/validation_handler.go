package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/service"
)

type ValidationHandler struct {
	validation service.ValidationService
}

func NewValidationHandler(validation service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validation: validation}
}

func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.validation.Validate(r.Context(), scopeFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ValidationHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := queryInt32(r.URL.Query().Get("limit"), 20)
	results, err := h.validation.History(r.Context(), scopeFrom(r), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": results})
}

type balanceAdjustmentRequest struct {
	StoreID int64           `json:"store_id"`
	Delta   decimal.Decimal `json:"delta"`
	Reason  string          `json:"reason"`
}

func (h *ValidationHandler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req balanceAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	tx, err := h.validation.CreateBalanceAdjustment(r.Context(), scopeFrom(r), req.StoreID, req.Delta, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}
