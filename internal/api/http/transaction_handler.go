package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/service"
)

type TransactionHandler struct {
	ledger   service.LedgerService
	balances service.BalanceService
}

func NewTransactionHandler(ledger service.LedgerService, balances service.BalanceService) *TransactionHandler {
	return &TransactionHandler{ledger: ledger, balances: balances}
}

type recordTransactionRequest struct {
	StoreID         int64           `json:"store_id"`
	Direction       string          `json:"direction"`
	Category        string          `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	OccurredOn      string          `json:"occurred_on"` // YYYY-MM-DD
	PartnershipID   *int64          `json:"partnership_id"`
	Description     string          `json:"description"`
	ExternalRef     string          `json:"external_ref"`
	Processor       string          `json:"processor"`
	IsPersonal      bool            `json:"is_personal_expense"`
	IsPendingPayout bool            `json:"is_pending_payout"`
	Approve         bool            `json:"approve"`
}

func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req recordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	var occurredOn time.Time
	if req.OccurredOn != "" {
		parsed, err := time.Parse("2006-01-02", req.OccurredOn)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "occurred_on must be YYYY-MM-DD"})
			return
		}
		occurredOn = parsed
	}

	tx, err := h.ledger.RecordTransaction(r.Context(), scopeFrom(r), service.RecordTransactionInput{
		StoreID:         req.StoreID,
		Direction:       domain.TransactionDirection(req.Direction),
		Category:        domain.TransactionCategory(req.Category),
		Amount:          req.Amount,
		Currency:        req.Currency,
		ExchangeRate:    req.ExchangeRate,
		OccurredOn:      occurredOn,
		PartnershipID:   req.PartnershipID,
		Description:     req.Description,
		ExternalRef:     req.ExternalRef,
		Processor:       domain.ProcessorType(req.Processor),
		IsPersonal:      req.IsPersonal,
		IsPendingPayout: req.IsPendingPayout,
		Approve:         req.Approve,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction id"})
		return
	}
	tx, err := h.ledger.ApproveTransaction(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid transaction id"})
		return
	}
	tx, err := h.ledger.RejectTransaction(r.Context(), scopeFrom(r), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}

	q := r.URL.Query()
	filter := domain.TransactionFilter{
		Status:    domain.TransactionStatus(q.Get("status")),
		Category:  domain.TransactionCategory(q.Get("category")),
		Direction: domain.TransactionDirection(q.Get("direction")),
		Page:      queryInt32(q.Get("page"), 1),
		PageSize:  queryInt32(q.Get("page_size"), 50),
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from must be YYYY-MM-DD"})
			return
		}
		filter.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "to must be YYYY-MM-DD"})
			return
		}
		filter.To = &t
	}

	txs, total, err := h.ledger.QueryTransactions(r.Context(), scopeFrom(r), storeID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs, "total": total})
}

func (h *TransactionHandler) Balance(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	balance, err := h.balances.StoreBalance(r.Context(), scopeFrom(r), storeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"store_id": storeID, "balance": balance})
}

func (h *TransactionHandler) Profit(w http.ResponseWriter, r *http.Request) {
	storeID, err := pathID(r, "storeID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}
	period := service.Period(r.URL.Query().Get("period"))
	profit, err := h.balances.Profit(r.Context(), scopeFrom(r), storeID, period)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"store_id": storeID, "period": period, "profit": profit})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func queryInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 1 {
		return fallback
	}
	return int32(v)
}
