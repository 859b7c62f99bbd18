package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/app"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/http/helpers"
	"github.com/dropDatabas3/clientdesk/internal/portal/credentials"
)

// adminClientsHandler cubre el CRUD de clientes y el alta de sus recursos
// anidados (credenciales, dominios, hosting, documentos).
type adminClientsHandler struct {
	c *app.Container
}

func NewAdminClientsHandler(c *app.Container) *adminClientsHandler {
	return &adminClientsHandler{c: c}
}

func (h *adminClientsHandler) Register(r chi.Router) {
	r.Post("/v1/admin/clients", h.create)
	r.Get("/v1/admin/clients", h.list)
	r.Get("/v1/admin/clients/{id}", h.get)
	r.Post("/v1/admin/clients/{id}/credentials", h.createCredential)
	r.Post("/v1/admin/clients/{id}/domains", h.createDomain)
	r.Post("/v1/admin/clients/{id}/hosting", h.createHosting)
	r.Post("/v1/admin/clients/{id}/documents", h.createDocument)
}

// clientParam valida el {id} de la URL y carga el cliente.
func (h *adminClientsHandler) clientParam(w http.ResponseWriter, r *http.Request) (*repository.Client, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidParameter.WithDetail("id debe ser un UUID"))
		return nil, false
	}
	cl, err := h.c.Store.GetClient(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httperrors.WriteError(w, httperrors.ErrClientNotFound)
			return nil, false
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return nil, false
	}
	return cl, true
}

type createClientRequest struct {
	Name         string  `json:"name"`
	Company      *string `json:"company,omitempty"`
	EmailPrimary string  `json:"emailPrimary"`
	Phone        *string `json:"phone,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// POST /v1/admin/clients
func (h *adminClientsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.EmailPrimary == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}
	if len(req.Name) < 2 {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("name: mínimo 2 caracteres"))
		return
	}
	if _, err := mail.ParseAddress(req.EmailPrimary); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("emailPrimary inválido"))
		return
	}

	cl := &repository.Client{
		Name:         req.Name,
		Company:      req.Company,
		EmailPrimary: req.EmailPrimary,
		Phone:        req.Phone,
		Notes:        req.Notes,
	}
	if err := h.c.Store.CreateClient(r.Context(), cl); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, cl)
}

// GET /v1/admin/clients
func (h *adminClientsHandler) list(w http.ResponseWriter, r *http.Request) {
	out, err := h.c.Store.ListClients(r.Context())
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	if out == nil {
		out = []repository.Client{}
	}
	helpers.WriteJSON(w, http.StatusOK, out)
}

// GET /v1/admin/clients/{id}
func (h *adminClientsHandler) get(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.clientParam(w, r)
	if !ok {
		return
	}
	helpers.WriteJSON(w, http.StatusOK, cl)
}

type createCredentialRequest struct {
	Label    string  `json:"label"`
	Username *string `json:"username,omitempty"`
	Secret   string  `json:"secret"`
}

// POST /v1/admin/clients/{id}/credentials
//
// El alta responde sólo {id}: el secreto nunca se repite en la respuesta.
func (h *adminClientsHandler) createCredential(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.clientParam(w, r); !ok {
		return
	}
	var req createCredentialRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	id, appErr := h.c.Credentials.Create(r.Context(), credentials.CreateInput{
		Label:    req.Label,
		Username: req.Username,
		Secret:   req.Secret,
	})
	if appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type createDomainRequest struct {
	DomainName   string     `json:"domainName"`
	Registrar    string     `json:"registrar"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	AutoRenew    *bool      `json:"autoRenew,omitempty"`
	Nameservers  string     `json:"nameservers"`
	LoginURL     *string    `json:"loginUrl,omitempty"`
	CredentialID *string    `json:"credentialId,omitempty"`
}

// POST /v1/admin/clients/{id}/domains
func (h *adminClientsHandler) createDomain(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.clientParam(w, r)
	if !ok {
		return
	}
	var req createDomainRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.DomainName = strings.TrimSpace(req.DomainName)
	req.Registrar = strings.TrimSpace(req.Registrar)
	if req.DomainName == "" || req.Registrar == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}
	if len(req.DomainName) < 3 || len(req.Registrar) < 2 {
		httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("domainName mínimo 3, registrar mínimo 2"))
		return
	}

	d := &repository.Domain{
		ClientID:     cl.ID,
		DomainName:   req.DomainName,
		Registrar:    req.Registrar,
		ExpiryDate:   req.ExpiryDate,
		AutoRenew:    req.AutoRenew,
		Nameservers:  req.Nameservers,
		LoginURL:     req.LoginURL,
		CredentialID: req.CredentialID,
	}
	if err := h.c.Store.CreateDomain(r.Context(), d); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("credentialId inexistente"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, d)
}

type createHostingRequest struct {
	Provider        string     `json:"provider"`
	Plan            *string    `json:"plan,omitempty"`
	RenewalDate     *time.Time `json:"renewalDate,omitempty"`
	Region          *string    `json:"region,omitempty"`
	ControlPanelURL *string    `json:"controlPanelUrl,omitempty"`
	CredentialID    *string    `json:"credentialId,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
}

// POST /v1/admin/clients/{id}/hosting
func (h *adminClientsHandler) createHosting(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.clientParam(w, r)
	if !ok {
		return
	}
	var req createHostingRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Provider = strings.TrimSpace(req.Provider)
	if req.Provider == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	hst := &repository.Hosting{
		ClientID:        cl.ID,
		Provider:        req.Provider,
		Plan:            req.Plan,
		RenewalDate:     req.RenewalDate,
		Region:          req.Region,
		ControlPanelURL: req.ControlPanelURL,
		CredentialID:    req.CredentialID,
		Notes:           req.Notes,
	}
	if err := h.c.Store.CreateHosting(r.Context(), hst); err != nil {
		if errors.Is(err, repository.ErrInvalidInput) {
			httperrors.WriteError(w, httperrors.ErrInvalidFormat.WithDetail("credentialId inexistente"))
			return
		}
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, hst)
}

type createDocumentRequest struct {
	Title      string `json:"title"`
	StorageKey string `json:"storageKey"`
}

// POST /v1/admin/clients/{id}/documents
//
// Sólo metadata: el blob vive en el storage externo bajo storageKey.
func (h *adminClientsHandler) createDocument(w http.ResponseWriter, r *http.Request) {
	cl, ok := h.clientParam(w, r)
	if !ok {
		return
	}
	var req createDocumentRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.StorageKey == "" {
		httperrors.WriteError(w, httperrors.ErrMissingFields)
		return
	}

	doc := &repository.Document{
		ClientID:   cl.ID,
		Title:      req.Title,
		StorageKey: req.StorageKey,
	}
	if err := h.c.Store.CreateDocument(r.Context(), doc); err != nil {
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, doc)
}
