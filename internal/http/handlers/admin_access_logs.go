package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
)

type adminAccessLogsHandler struct {
	c *app.Container
}

func NewAdminAccessLogsHandler(c *app.Container) *adminAccessLogsHandler {
	return &adminAccessLogsHandler{c: c}
}

func (h *adminAccessLogsHandler) Register(r chi.Router) {
	r.Get("/v1/admin/access-logs", h.list)
}

const (
	accessLogsDefaultLimit = 50
	accessLogsMaxLimit     = 500
)

// GET /v1/admin/access-logs?limit=N (más nuevos primero, tope 500)
func (h *adminAccessLogsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := accessLogsDefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("limit debe ser un entero positivo"))
			return
		}
		limit = min(n, accessLogsMaxLimit)
	}

	out, err := h.c.Audit.Recent(r.Context(), limit)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.SecretAccessLog{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}
