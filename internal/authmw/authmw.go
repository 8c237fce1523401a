// Package authmw provides HTTP middleware for session token authentication
// and role-based access control.
package authmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/cantilanlgu/lifeline/internal/dispatch"
	"github.com/cantilanlgu/lifeline/internal/session"
)

type contextKey struct{}

// Sessions resolves bearer tokens to live sessions.
type Sessions interface {
	Lookup(token string) (session.Session, bool)
}

// Users resolves session user ids to accounts.
type Users interface {
	GetUser(ctx context.Context, id int64) (*dispatch.User, bool, error)
}

// UserFromContext returns the authenticated user injected by SessionToken.
func UserFromContext(ctx context.Context) (*dispatch.User, bool) {
	u, ok := ctx.Value(contextKey{}).(*dispatch.User)
	return u, ok
}

// SessionToken returns middleware that validates the Authorization header
// contains a Bearer token for a live session and injects the session's
// user into the request context.
func SessionToken(sessions Sessions, users Users) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				unauthorized(w, "missing or malformed authorization header")
				return
			}

			sess, ok := sessions.Lookup(auth[len("Bearer "):])
			if !ok {
				unauthorized(w, "invalid or expired session")
				return
			}

			u, ok, err := users.GetUser(r.Context(), sess.UserID)
			if err != nil {
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if !ok {
				// The account was deleted while the session was live.
				unauthorized(w, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), contextKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects requests whose authenticated
// user holds none of the given roles. It must run after SessionToken.
func RequireRole(roles ...dispatch.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				unauthorized(w, "not authenticated")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	http.Error(w, `{"error":"`+msg+`"}`, http.StatusUnauthorized)
}
