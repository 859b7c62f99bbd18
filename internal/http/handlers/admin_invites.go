package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/portal/invites"
)

type adminInvitesHandler struct {
	c *app.Container
}

func NewAdminInvitesHandler(c *app.Container) *adminInvitesHandler {
	return &adminInvitesHandler{c: c}
}

func (h *adminInvitesHandler) Register(r chi.Router) {
	r.Post("/v1/admin/invites", h.create)
	r.Get("/v1/admin/invites", h.list)
}

// POST /v1/admin/invites
//
// La respuesta incluye el token en claro una única vez, por si el correo
// no llega y el ADMIN necesita pasar el link a mano.
func (h *adminInvitesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req invites.CreateInput
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	res, appErr := h.c.Invites.Create(r.Context(), req)
	if appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, res)
}

// GET /v1/admin/invites?clientId=...
func (h *adminInvitesHandler) list(w http.ResponseWriter, r *http.Request) {
	var scope *string
	if v := r.URL.Query().Get("clientId"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("clientId debe ser un UUID"))
			return
		}
		scope = &v
	}
	out, err := h.c.Store.ListInvites(r.Context(), scope)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.ClientInvite{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
