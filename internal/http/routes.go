// Package http arma el router del portal: middlewares, rutas públicas,
// rutas autenticadas y el área admin.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/http/handlers"
	"github.com/dropDatabas3/clientdesk/internal/http/middlewares"
)

// NewRouter construye el handler raíz.
// Cadena global: request-id -> logging -> recover -> metrics.
// Auth y admin se aplican por grupo.
func NewRouter(c *app.Container, metricsHandler http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middlewares.WithRequestID())
	r.Use(middlewares.WithLogging())
	r.Use(middlewares.WithRecover())
	r.Use(WithMetrics)

	credentialsH := handlers.NewCredentialsHandler(c)
	clientsH := handlers.NewAdminClientsHandler(c)
	usersH := handlers.NewAdminUsersHandler(c)
	invitesH := handlers.NewAdminInvitesHandler(c)
	accessLogsH := handlers.NewAdminAccessLogsHandler(c)
	portalH := handlers.NewPortalHandler(c)
	supportH := handlers.NewSupportHandler(c)
	acceptH := handlers.NewInvitesAcceptHandler(c)
	healthH := handlers.NewHealthHandler(c)

	// Público: health, metrics y aceptación de invitaciones.
	healthH.Register(r)
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}
	acceptH.Register(r)

	// Autenticado: cualquier principal válido.
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAuth(c.Verifier, c.Resolver))

		credentialsH.Register(r)
		portalH.Register(r)
		supportH.Register(r)
	})

	// Admin.
	r.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAuth(c.Verifier, c.Resolver))
		r.Use(middlewares.RequireAdmin())

		credentialsH.RegisterAdmin(r)
		clientsH.Register(r)
		usersH.Register(r)
		invitesH.Register(r)
		accessLogsH.Register(r)
		supportH.RegisterAdmin(r)
	})

	return r
}
