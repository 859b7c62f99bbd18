// Package repository define las entidades del portal y el contrato de
// persistencia. Los adapters viven en internal/store.
package repository

import (
	"time"

	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
)

// Client es una organización cliente: la unidad de aislamiento de datos.
type Client struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Company      *string   `json:"company,omitempty"`
	EmailPrimary string    `json:"emailPrimary"`
	Phone        *string   `json:"phone,omitempty"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// AppUser es un usuario del portal. Subject es el identificador canónico del
// proveedor de identidad externo (una sola integración, un solo campo).
// Invariante (también CHECK en DB): ADMIN => ClientID nil, CLIENT => no nil.
type AppUser struct {
	ID           string    `json:"id"`
	Subject      *string   `json:"subject,omitempty"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	ClientID     *string   `json:"clientId,omitempty"`
	PasswordHash *string   `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Credential es un login guardado. No es tenant-scoped por sí misma: su
// conjunto de tenants se deriva de los Domain/Hosting que la referencian.
// El secreto jamás existe en claro en esta entidad.
type Credential struct {
	ID        string             `json:"id"`
	Label     string             `json:"label"`
	Username  *string            `json:"username,omitempty"`
	Envelope  secretbox.Envelope `json:"-"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// CredentialSummary es la vista de listado: metadata sin sobre cifrado.
type CredentialSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Username  *string   `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Domain es un dominio registrado de un cliente.
type Domain struct {
	ID           string     `json:"id"`
	ClientID     string     `json:"clientId"`
	DomainName   string     `json:"domainName"`
	Registrar    string     `json:"registrar"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
	AutoRenew    *bool      `json:"autoRenew,omitempty"`
	Nameservers  string     `json:"nameservers"`
	LoginURL     *string    `json:"loginUrl,omitempty"`
	CredentialID *string    `json:"credentialId,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Hosting es una cuenta de hosting de un cliente.
type Hosting struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"clientId"`
	Provider        string     `json:"provider"`
	Plan            *string    `json:"plan,omitempty"`
	RenewalDate     *time.Time `json:"renewalDate,omitempty"`
	Region          *string    `json:"region,omitempty"`
	ControlPanelURL *string    `json:"controlPanelUrl,omitempty"`
	CredentialID    *string    `json:"credentialId,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Document es metadata de un blob opaco; el contenido vive afuera
// (storage con URLs firmadas, fuera de este servicio).
type Document struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	Title      string    `json:"title"`
	StorageKey string    `json:"storageKey"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Estados de ticket de soporte.
const (
	TicketOpen   = "OPEN"
	TicketClosed = "CLOSED"
)

// SupportTicket es un reclamo de un usuario cliente.
type SupportTicket struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	UserID    string    `json:"userId"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClientInvite es una invitación pendiente. Sólo se persiste el hash del
// token; el token en claro se entrega una única vez.
type ClientInvite struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	ClientID  string     `json:"clientId"`
	TokenHash string     `json:"-"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ActionReveal es la única acción registrada en el log de acceso a secretos.
const ActionReveal = "REVEAL"

// SecretAccessLog es una entrada inmutable del log de accesos.
// Se crea exactamente una por reveal exitoso; nunca se muta ni borra.
type SecretAccessLog struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	CredentialID string    `json:"credentialId"`
	Action       string    `json:"action"`
	CreatedAt    time.Time `json:"createdAt"`
}
