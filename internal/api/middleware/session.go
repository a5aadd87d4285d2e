// internal/api/middleware/session.go
package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"bank-system/internal/api/types"
	"bank-system/internal/domain"
	"bank-system/internal/util"
)

type contextKey string

const sessionKey contextKey = "session"

// UnauthenticatedMessage is returned to callers without a valid session.
const UnauthenticatedMessage = "Please login first!"

// SessionResolver looks up the session behind a token.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Session, error)
}

// SessionFromContext returns the session attached by LoadSession, if any.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// LoadSession attaches the session named by the cookie to the request context
// when it resolves. Requests without a valid session pass through untouched.
func LoadSession(resolver SessionResolver, cookieName string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				if !util.IsError(err, util.ErrUnauthenticated) {
					logger.Error("Failed to resolve session", "error", err, "url", r.RequestURI)
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireSession rejects requests that LoadSession did not authenticate.
func RequireSession(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				logger.Warn("Unauthorized request", "url", r.RequestURI)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: UnauthenticatedMessage})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
