package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/myboulders/api/internal/apperror"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the principal value.
type contextKey string

const principalKey contextKey = "principal"

// CookieName is the session cookie holding the JWT.
const CookieName = "token"

// RequireAuth enforces authentication on protected routes.
//
// The token is read from the "token" HttpOnly cookie first; if absent, the
// "Authorization: Bearer <token>" header is checked as a fallback (API
// clients that don't use cookies). A missing token, an expired token, and a
// tampered token all yield 401, each with its own message.
//
// On success the Principal is stored in the request context for handlers to
// read via PrincipalFromContext.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := extractPrincipal(r, tokens)
			if err != nil {
				var msg string
				if appErr, ok := err.(*apperror.AppError); ok {
					msg = appErr.Message
				} else {
					msg = "valid authentication required"
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"` + msg + `"}`))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// WithPrincipal returns a context carrying the authenticated principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext retrieves the authenticated user from the request
// context. Returns (Principal{}, false) if the request is anonymous, which
// on a RequireAuth-protected route should never happen.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.ID != ""
}

// extractPrincipal finds and validates the session token: cookie first,
// bearer header as fallback.
func extractPrincipal(r *http.Request, tokens *TokenService) (Principal, error) {
	tokenStr := ""

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		tokenStr = cookie.Value
	} else if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenStr = strings.TrimPrefix(header, "Bearer ")
	}

	if tokenStr == "" {
		return Principal{}, apperror.Unauthorized("authorization token is missing")
	}

	return tokens.Validate(tokenStr)
}
