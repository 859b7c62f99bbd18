package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/http/middlewares"
)

// portalHandler expone las vistas tenant-shaped del portal: cada listado
// se filtra en la query según el scope del principal, y los detalles
// fuera de scope responden 404 (nunca 403, para no confirmar existencia).
type portalHandler struct {
	c *app.Container
}

func NewPortalHandler(c *app.Container) *portalHandler {
	return &portalHandler{c: c}
}

func (h *portalHandler) Register(r chi.Router) {
	r.Get("/v1/domains", h.listDomains)
	r.Get("/v1/domains/{id}", h.getDomain)
	r.Get("/v1/hosting", h.listHosting)
	r.Get("/v1/hosting/{id}", h.getHosting)
	r.Get("/v1/documents", h.listDocuments)
	r.Get("/v1/me", h.me)
}

func parseIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id debe ser un UUID"))
		return "", false
	}
	return id, true
}

// GET /v1/domains
func (h *portalHandler) listDomains(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	out, err := h.c.Store.ListDomains(r.Context(), authz.ListScope(*p))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.Domain{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GET /v1/domains/{id}
func (h *portalHandler) getDomain(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	d, err := h.c.Store.GetDomain(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if !authz.CanAccessClient(*p, &d.ClientID) {
		// Fuera de scope responde igual que inexistente.
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, d)
}

// GET /v1/hosting
func (h *portalHandler) listHosting(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	out, err := h.c.Store.ListHosting(r.Context(), authz.ListScope(*p))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.Hosting{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GET /v1/hosting/{id}
func (h *portalHandler) getHosting(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}
	hst, err := h.c.Store.GetHosting(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if !authz.CanAccessClient(*p, &hst.ClientID) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, hst)
}

// GET /v1/documents
func (h *portalHandler) listDocuments(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	out, err := h.c.Store.ListDocuments(r.Context(), authz.ListScope(*p))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.Document{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GET /v1/me
func (h *portalHandler) me(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	helpers.WriteJSON(w, http.StatusOK, map[string]any{
		"id":       p.ID,
		"email":    p.Email,
		"role":     p.Role,
		"clientId": p.ClientID,
	})
}
