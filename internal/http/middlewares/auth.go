package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dropDatabas3/clientdesk/internal/authn"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// RequireAuth valida Authorization: Bearer <JWT>, resuelve el principal y
// lo guarda en el contexto. Si el token es inválido, falta, o el subject no
// tiene usuario local, responde 401.
func RequireAuth(verifier *authn.Verifier, resolver *authn.Resolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			subject, err := verifier.VerifySubject(raw)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				if errors.Is(err, authn.ErrTokenExpired) {
					httperrors.WriteError(w, httperrors.ErrTokenExpired)
					return
				}
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			p, err := resolver.Resolve(r.Context(), subject)
			if err != nil {
				// Un token válido sin usuario local sigue siendo 401: la
				// sesión no corresponde a nadie en el portal.
				if errors.Is(err, repository.ErrNotFound) {
					httperrors.WriteError(w, httperrors.ErrUnauthorized)
					return
				}
				httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
				return
			}

			ctx := WithPrincipal(r.Context(), p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
