package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Transactions *TransactionHandler
	Partnerships *PartnershipHandler
	Settlements  *SettlementHandler
	Validation   *ValidationHandler
	Imports      *ImportHandler
}

// NewRouter registers every API route under /api/v1 behind the scope
// middleware. Health is registered outside it so probes need no headers.
func NewRouter(h Handlers) *mux.Router {
	root := mux.NewRouter()
	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(ScopeMiddleware)

	api.HandleFunc("/transactions", h.Transactions.Record).Methods("POST")
	api.HandleFunc("/transactions/{id:[0-9]+}/approve", h.Transactions.Approve).Methods("POST")
	api.HandleFunc("/transactions/{id:[0-9]+}/reject", h.Transactions.Reject).Methods("POST")
	api.HandleFunc("/stores/{storeID:[0-9]+}/transactions", h.Transactions.List).Methods("GET")
	api.HandleFunc("/stores/{storeID:[0-9]+}/balance", h.Transactions.Balance).Methods("GET")
	api.HandleFunc("/stores/{storeID:[0-9]+}/profit", h.Transactions.Profit).Methods("GET")

	api.HandleFunc("/partnerships", h.Partnerships.Create).Methods("POST")
	api.HandleFunc("/partnerships/{id:[0-9]+}", h.Partnerships.Get).Methods("GET")
	api.HandleFunc("/partnerships/{id:[0-9]+}/ownership", h.Partnerships.UpdateOwnership).Methods("PUT")
	api.HandleFunc("/partnerships/{id:[0-9]+}/end", h.Partnerships.End).Methods("POST")
	api.HandleFunc("/stores/{storeID:[0-9]+}/partnerships", h.Partnerships.List).Methods("GET")
	api.HandleFunc("/stores/{storeID:[0-9]+}/ownership", h.Partnerships.Ownership).Methods("GET")
	api.HandleFunc("/stores/{storeID:[0-9]+}/distribute-profit", h.Partnerships.DistributeProfit).Methods("POST")

	api.HandleFunc("/settlements", h.Settlements.Request).Methods("POST")
	api.HandleFunc("/settlements/{id:[0-9]+}/approve", h.Settlements.Approve).Methods("POST")
	api.HandleFunc("/settlements/{id:[0-9]+}/reject", h.Settlements.Reject).Methods("POST")
	api.HandleFunc("/settlements/{id:[0-9]+}/complete", h.Settlements.Complete).Methods("POST")
	api.HandleFunc("/partnerships/{partnershipID:[0-9]+}/settlements", h.Settlements.List).Methods("GET")

	api.HandleFunc("/validation/run", h.Validation.Validate).Methods("POST")
	api.HandleFunc("/validation/history", h.Validation.History).Methods("GET")
	api.HandleFunc("/validation/adjustments", h.Validation.CreateAdjustment).Methods("POST")

	api.HandleFunc("/imports", h.Imports.Start).Methods("POST")
	api.HandleFunc("/imports", h.Imports.List).Methods("GET")
	api.HandleFunc("/imports/{id}", h.Imports.Get).Methods("GET")
	api.HandleFunc("/imports/{id}/reprocess", h.Imports.Reprocess).Methods("POST")
	api.HandleFunc("/imports/{id}/cancel", h.Imports.Cancel).Methods("POST")

	return root
}
