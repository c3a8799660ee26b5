package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/service"
)

type PartnershipHandler struct {
	partnerships service.PartnershipService
}

func NewPartnershipHandler(partnerships service.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{partnerships: partnerships}
}

type createPartnershipRequest struct {
	StoreID             int64           `json:"store_id"`
	UserID              int64           `json:"user_id"`
	Role                string          `json:"role"`
	Status              string          `json:"status"`
	OwnershipPercentage decimal.Decimal `json:"ownership_percentage"`
	StartDate           string          `json:"start_date"` // YYYY-MM-DD
}

func (h *PartnershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	p := &domain.Partnership{
		StoreID:             req.StoreID,
		UserID:              req.UserID,
		Role:                domain.PartnershipRole(req.Role),
		Status:              domain.PartnershipStatus(req.Status),
		OwnershipPercentage: req.OwnershipPercentage,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		p.StartDate = start
	}
	if err := h.partnerships.CreatePartnership(r.Context(), scopeFrom(r), p); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PartnershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partnership id"})
		return
	}
	p, err := h.partnerships.GetPartnership(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partnership": p, "debt_status": p.DebtStatus()})
}

func (h *PartnershipHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	status := domain.PartnershipStatus(r.URL.Query().Get("status"))
	ps, err := h.partnerships.ListPartnerships(r.Context(), scopeFrom(r), storeID, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"partnerships": ps})
}

func (h *PartnershipHandler) UpdateOwnership(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partnership id"})
		return
	}
	var req struct {
		OwnershipPercentage decimal.Decimal `json:"ownership_percentage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := h.partnerships.UpdateOwnership(r.Context(), scopeFrom(r), id, req.OwnershipPercentage); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *PartnershipHandler) End(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid partnership id"})
		return
	}
	var req struct {
		EndDate string `json:"end_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	endDate := time.Now().UTC()
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		endDate = parsed
	}
	if err := h.partnerships.EndPartnership(r.Context(), scopeFrom(r), id, endDate); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "terminated"})
}

func (h *PartnershipHandler) Ownership(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	scope := scopeFrom(r)
	total, err := h.partnerships.TotalOwnership(r.Context(), scope, storeID)
	if err != nil {
		writeError(w, err)
		return
	}
	available, err := h.partnerships.AvailableOwnership(r.Context(), scope, storeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"store_id": storeID, "total_ownership": total, "available_ownership": available,
	})
}

func (h *PartnershipHandler) DistributeProfit(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	var req struct {
		Period string `json:"period"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	settlements, err := h.partnerships.DistributeProfit(r.Context(), scopeFrom(r), storeID, service.Period(req.Period))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"settlements": settlements})
}
