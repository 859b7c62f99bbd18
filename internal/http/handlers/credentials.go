package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/http/middlewares"
)

type credentialsHandler struct {
	c *app.Container
}

func NewCredentialsHandler(c *app.Container) *credentialsHandler {
	return &credentialsHandler{c: c}
}

// Register monta las rutas de credenciales. El reveal queda bajo auth;
// alta y listado son sólo ADMIN.
func (h *credentialsHandler) Register(r chi.Router) {
	r.Post("/v1/credentials/reveal", h.reveal)
}

func (h *credentialsHandler) RegisterAdmin(r chi.Router) {
	r.Get("/v1/admin/credentials", h.list)
}

type revealRequest struct {
	CredentialID string `json:"credentialId"`
}

// POST /v1/credentials/reveal
func (h *credentialsHandler) reveal(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())

	var req revealRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.CredentialID == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("credentialId requerido"))
		return
	}

	res, appErr := h.c.Credentials.Reveal(r.Context(), p, req.CredentialID)
	if appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// GET /v1/admin/credentials
func (h *credentialsHandler) list(w http.ResponseWriter, r *http.Request) {
	out, appErr := h.c.Credentials.List(r.Context())
	if appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	if out == nil {
		out = []repository.CredentialSummary{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
