package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"partnerledger-backend/internal/domain"
	"partnerledger-backend/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("Failed to encode response", "error", err)
		}
	}
}

// writeError maps the domain error taxonomy onto HTTP statuses: validation
// errors are 400, missing entities 404, lost state races 409.
func writeError(w http.ResponseWriter, err error) {
	var (
		rateErr      *domain.InvalidExchangeRateError
		categoryErr  *domain.CategoryDirectionMismatchError
		unknownErr   *domain.UnknownCategoryError
		ownershipErr *domain.OwnershipExceededError
		stateErr     *domain.InvalidSettlementStateError
		conflictErr  *domain.ConflictError
		notFoundErr  *domain.NotFoundError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &rateErr), errors.As(err, &categoryErr),
		errors.As(err, &unknownErr), errors.As(err, &ownershipErr):
		status = http.StatusBadRequest
	case errors.As(err, &stateErr), errors.As(err, &conflictErr):
		status = http.StatusConflict
	case errors.As(err, &notFoundErr):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
