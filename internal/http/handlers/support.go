package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/http/middlewares"
)

type supportHandler struct {
	c *app.Container
}

func NewSupportHandler(c *app.Container) *supportHandler {
	return &supportHandler{c: c}
}

func (h *supportHandler) Register(r chi.Router) {
	r.Post("/v1/support/tickets", h.create)
	r.Get("/v1/support/tickets", h.list)
}

func (h *supportHandler) RegisterAdmin(r chi.Router) {
	r.Put("/v1/admin/support/tickets/{id}/status", h.setStatus)
}

type createTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	// Sólo ADMIN puede abrir un ticket en nombre de un cliente.
	ClientID *string `json:"clientId,omitempty"`
}

// POST /v1/support/tickets
func (h *supportHandler) create(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())

	var req createTicketRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Subject == "" || req.Message == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}
	if len(req.Subject) < 4 || len(req.Message) < 10 {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("subject mínimo 4, message mínimo 10"))
		return
	}

	var clientID string
	switch {
	case p.IsAdmin():
		if req.ClientID == nil {
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("clientId requerido para ADMIN"))
			return
		}
		clientID = *req.ClientID
	default:
		clientID = *p.ClientID
	}

	t := &repository.SupportTicket{
		ClientID: clientID,
		UserID:   p.ID,
		Subject:  req.Subject,
		Message:  req.Message,
	}
	if err := h.c.Store.CreateTicket(r.Context(), t); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("clientId inexistente"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, t)
}

// GET /v1/support/tickets
func (h *supportHandler) list(w http.ResponseWriter, r *http.Request) {
	p := middlewares.MustGetPrincipal(r.Context())
	out, err := h.c.Store.ListTickets(r.Context(), authz.ListScope(*p))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.SupportTicket{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// PUT /v1/admin/support/tickets/{id}/status
func (h *supportHandler) setStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id debe ser un UUID"))
		return
	}
	var req setStatusRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.Status != repository.TicketOpen && req.Status != repository.TicketClosed {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("status debe ser OPEN o CLOSED"))
		return
	}

	if err := h.c.Store.SetTicketStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrNotFound)
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}
