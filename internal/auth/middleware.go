package auth

import (
	"context"
	"net/http"

	"github.com/carelink/hms-core/pkg/types"
)

type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalFromContext returns the resolved principal for the request, or
// nil when the request is unauthenticated.
func PrincipalFromContext(ctx context.Context) *types.Principal {
	principal, _ := ctx.Value(principalContextKey).(*types.Principal)
	return principal
}

// WithPrincipal stashes a resolved principal on the context. Exposed for
// handler tests.
func WithPrincipal(ctx context.Context, principal *types.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// Middleware resolves the session cookie on every request and attaches the
// principal, when any, to the request context. It never rejects: each
// handler decides how an unauthenticated request is surfaced (redirect for
// form flows, 401 for JSON flows).
func Middleware(sessions *SessionManager, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := sessions.Resolve(cookie.Value)
			if err != nil || principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
