package middleware

import (
	"net/http"

	"github.com/chris/loyalty-points/pkg/models"
	"github.com/chris/loyalty-points/pkg/registry"
)

// UserIDHeader carries the authenticated caller's user ID. Authentication
// itself happens upstream; this service only checks roles.
const UserIDHeader = "X-User-Id"

// RequireAdmin rejects requests whose caller is not an admin user.
func RequireAdmin(reg registry.Registry) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(UserIDHeader)
			if userID == "" {
				http.Error(w, "Missing "+UserIDHeader+" header", http.StatusUnauthorized)
				return
			}

			user, err := reg.GetUser(r.Context(), userID)
			if err != nil || user.Role != models.RoleAdmin {
				http.Error(w, "Admin role required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
