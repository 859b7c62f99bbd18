package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
)

type adminUsersHandler struct {
	c *app.Container
}

func NewAdminUsersHandler(c *app.Container) *adminUsersHandler {
	return &adminUsersHandler{c: c}
}

func (h *adminUsersHandler) Register(r chi.Router) {
	r.Post("/v1/admin/users", h.create)
	r.Get("/v1/admin/users", h.list)
	r.Put("/v1/admin/users/{id}", h.update)
}

type createUserRequest struct {
	Subject  *string `json:"subject,omitempty"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	ClientID *string `json:"clientId,omitempty"`
}

// POST /v1/admin/users
//
// Alta directa de usuario (típicamente ADMIN, o un CLIENT con identidad
// externa ya conocida). La coherencia rol/cliente se valida acá y además
// la refuerza el CHECK de la tabla.
func (h *adminUsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Role == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("email inválido"))
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("role debe ser ADMIN o CLIENT"))
		return
	}
	if _, err := authz.NewPrincipal("pending", req.Email, role, req.ClientID); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
		return
	}
	if req.Subject != nil && len(strings.TrimSpace(*req.Subject)) < 4 {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("subject: mínimo 4 caracteres"))
		return
	}

	u := &repository.AppUser{
		Subject:  req.Subject,
		Email:    req.Email,
		Role:     string(role),
		ClientID: req.ClientID,
	}
	if err := h.c.Store.CreateUser(r.Context(), u); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
		case errors.Is(err, repository.ErrInvalidInput):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("clientId inexistente o incoherente con el rol"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, u)
}

// GET /v1/admin/users?clientId=...
func (h *adminUsersHandler) list(w http.ResponseWriter, r *http.Request) {
	var scope *string
	if v := r.URL.Query().Get("clientId"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("clientId debe ser un UUID"))
			return
		}
		scope = &v
	}
	out, err := h.c.Store.ListUsers(r.Context(), scope)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.AppUser{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

type updateUserRequest struct {
	Role     string  `json:"role"`
	ClientID *string `json:"clientId,omitempty"`
}

// PUT /v1/admin/users/{id}
func (h *adminUsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id debe ser un UUID"))
		return
	}
	var req updateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("role debe ser ADMIN o CLIENT"))
		return
	}
	// Re-chequear el invariante antes de tocar la DB.
	if _, err := authz.NewPrincipal(id, "pending", role, req.ClientID); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail(err.Error()))
		return
	}

	if err := h.c.Store.UpdateUserRole(r.Context(), id, string(role), req.ClientID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			httperrors.WriteError(w, httperrors.ErrUserNotFound)
		case errors.Is(err, repository.ErrInvalidInput):
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("clientId inexistente o incoherente con el rol"))
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	// La entrada cacheada del usuario queda vieja tras el cambio de rol.
	if u, err := h.c.Store.GetUser(r.Context(), id); err == nil && u.Subject != nil {
		h.c.Resolver.Invalidate(r.Context(), *u.Subject)
	}

	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
