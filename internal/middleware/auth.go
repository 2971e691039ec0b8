package middleware

import (
	"context"
	"net/http"
	"strings"

	"planet-beauty/internal/model"

	"github.com/rs/zerolog"
)

type identityKey struct{}

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*model.Identity, error)
}

// WithIdentity returns a context carrying the caller's identity.
func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the caller's identity, or nil for anonymous requests.
func IdentityFrom(ctx context.Context) *model.Identity {
	identity, _ := ctx.Value(identityKey{}).(*model.Identity)
	return identity
}

// Identify attaches the identity carried by a bearer token or the session cookie.
// Requests without a valid token continue anonymously.
func Identify(tokens TokenParser, cookieName string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if c, err := r.Cookie(cookieName); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := tokens.Parse(token)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("ignoring invalid session token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFrom(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, model.ErrUnauthenticated.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects non-admin callers with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, model.ErrForbidden.Message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
