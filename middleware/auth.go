package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"fintrack/models"
)

// Context key type to avoid collisions.
type contextKey string

// UserKey is the context key under which the authenticated user is stored.
const UserKey contextKey = "user"

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session"

// SessionValidator resolves a session token to its user.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*models.User, error)
}

// Auth returns a middleware that requires a valid session cookie and puts
// the resolved user into the request context. Requests without one are
// rejected with 401 before the handler runs.
func Auth(sessions SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			user, err := sessions.Validate(r.Context(), cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the authenticated user from the request context,
// or nil when the request did not pass through Auth.
func UserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserKey).(*models.User); ok {
		return user
	}
	return nil
}

// WithUser returns a copy of the request carrying user in its context, the
// same way Auth does. Used by tests that call handlers directly.
func WithUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), UserKey, user))
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "Login required"})
}
