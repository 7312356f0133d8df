package middleware

import (
	"log/slog"
	"net/http"

	"github.com/constituency-office/citizen-portal/internal/auth"
)

// RequireCapability gates a route on the capability table. The identity
// must already be resolved by the auth middleware; a missing identity is
// treated as unauthenticated, a role without the grant as forbidden.
func RequireCapability(capability auth.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !user.Can(capability) {
				slog.Warn("access denied",
					"user_id", user.ID,
					"role", user.Role,
					"capability", capability,
					"path", r.URL.Path)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireRoles allows the request through when the identity holds any of
// the listed roles. Used for the few routes that key on role identity
// rather than a capability, like the admin team console.
func RequireRoles(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok || user == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.Warn("access denied",
				"user_id", user.ID,
				"role", user.Role,
				"path", r.URL.Path)
			http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
		})
	}
}
