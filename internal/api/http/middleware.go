package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"partnerledger-backend/internal/domain"
)

type contextKey string

const scopeKey contextKey = "scope"

// ScopeMiddleware resolves the acting user's scope from headers set by the
// authentication gateway in front of this service. The core never derives
// roles itself; it trusts the already-resolved identity handed to it.
func ScopeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err1 := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
		companyID, err2 := strconv.ParseInt(r.Header.Get("X-Company-ID"), 10, 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "missing or invalid identity headers", http.StatusUnauthorized)
			return
		}

		scope := domain.Scope{
			UserID:     userID,
			CompanyID:  companyID,
			Role:       r.Header.Get("X-Role"),
			CanApprove: r.Header.Get("X-Can-Approve") == "true",
		}
		if raw := r.Header.Get("X-Store-IDs"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
				if err != nil {
					http.Error(w, "invalid X-Store-IDs header", http.StatusUnauthorized)
					return
				}
				scope.StoreIDs = append(scope.StoreIDs, id)
			}
		}

		ctx := context.WithValue(r.Context(), scopeKey, scope)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func scopeFrom(r *http.Request) domain.Scope {
	scope, _ := r.Context().Value(scopeKey).(domain.Scope)
	return scope
}
