package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clientdesk/internal/app"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/portal/invites"
)

// invitesAcceptHandler es la única ruta pública de escritura: consume el
// token de invitación y crea el usuario CLIENT.
type invitesAcceptHandler struct {
	c *app.Container
}

func NewInvitesAcceptHandler(c *app.Container) *invitesAcceptHandler {
	return &invitesAcceptHandler{c: c}
}

func (h *invitesAcceptHandler) Register(r chi.Router) {
	r.Post("/v1/invites/accept", h.accept)
}

// POST /v1/invites/accept
func (h *invitesAcceptHandler) accept(w http.ResponseWriter, r *http.Request) {
	var req invites.AcceptInput
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	user, appErr := h.c.Invites.Accept(r.Context(), req)
	if appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, user)
}
