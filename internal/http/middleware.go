package http

import (
	"context"
	"net/http"

	"github.com/fjod/sandwich_shop/internal/domain"
)

const RoleHeader = "X-Role"

type roleKey struct{}

// RoleMiddleware resolves the caller's role once per request.
func RoleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := domain.ParseRole(r.Header.Get(RoleHeader))
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid_role", "invalid role, allowed: customer, staff, admin")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), roleKey{}, role)))
	})
}

func roleFromContext(ctx context.Context) domain.Role {
	if role, ok := ctx.Value(roleKey{}).(domain.Role); ok {
		return role
	}
	return domain.RoleCustomer
}

// MaxBodySize caps request bodies; decoding fails once the limit is hit.
// A non-positive n disables the cap.
func MaxBodySize(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if n <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
