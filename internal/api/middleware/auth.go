package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/partygames/internal/api/apierr"
	"github.com/mcoot/partygames/internal/model"
)

type contextKey string

const sessionIDContextKey contextKey = "session_id"

// SessionCookie carries the host token for browser clients
const SessionCookie = "session"

// Authorizer checks a host token against a session
type Authorizer interface {
	Authorize(ctx context.Context, id model.SessionID, token string) error
}

// HostAuth requires the host token of the session named by the {id} route
// variable.
func HostAuth(authz Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := model.SessionID(mux.Vars(r)["id"])
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			if err := authz.Authorize(r.Context(), id, token); err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), sessionIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the host token from the request
func extractToken(r *http.Request) string {
	// Check Authorization header first
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	// EventSource cannot set headers, so the stream also accepts ?token=
	if token := r.URL.Query().Get("token"); token != "" {
		return token
	}

	// Fall back to cookie
	cookie, err := r.Cookie(SessionCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

// SessionID returns the authorized session id from the request context
func SessionID(ctx context.Context) model.SessionID {
	id, _ := ctx.Value(sessionIDContextKey).(model.SessionID)
	return id
}

// MustSessionID returns the authorized session id or panics
func MustSessionID(ctx context.Context) model.SessionID {
	id := SessionID(ctx)
	if id == "" {
		panic("no session in context - auth middleware not applied?")
	}
	return id
}
