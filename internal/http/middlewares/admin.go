package middlewares

import (
	"net/http"

	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
)

// RequireAdmin exige rol ADMIN. Debe usarse después de RequireAuth.
// Un principal CLIENT recibe 403; sin principal es 401.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r.Context())
			if p == nil {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}
			if !p.IsAdmin() {
				httperrors.WriteError(w, httperrors.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
