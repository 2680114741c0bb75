package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpggio/timekeep/internal/auth"
)

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// TenantFromContext returns the tenant ID from context, if present.
func TenantFromContext(ctx context.Context) (string, bool) {
	s := auth.SessionFromContext(ctx)
	return s.UserID, s.UserID != ""
}

// AuthMiddleware enforces bearer token authentication.
func AuthMiddleware(resolver TenantResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			tenantID, err := resolver.ResolveTenant(r.Context(), token)
			if err != nil || tenantID == "" {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := auth.WithSession(r.Context(), auth.Session{UserID: tenantID, Authenticated: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaticTenant runs every request as tenantID. It stands in for
// AuthMiddleware when auth is disabled.
func StaticTenant(tenantID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithSession(r.Context(), auth.Session{UserID: tenantID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
