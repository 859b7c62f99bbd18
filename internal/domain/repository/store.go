package repository

import (
	"context"
	"time"
)

// Store es el contrato plano de persistencia del portal.
//
// Los métodos List* reciben un filtro de tenant `clientID`: nil lista todo
// (ADMIN), no nil empuja `client_id = $1` a la query. El filtro se resuelve
// en la query misma para que las filas ajenas nunca lleguen al proceso.
type Store interface {
	// Clients
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id string) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	// Users
	CreateUser(ctx context.Context, u *AppUser) error
	GetUser(ctx context.Context, id string) (*AppUser, error)
	GetUserBySubject(ctx context.Context, subject string) (*AppUser, error)
	GetUserByEmail(ctx context.Context, email string) (*AppUser, error)
	ListUsers(ctx context.Context, clientID *string) ([]AppUser, error)
	UpdateUserRole(ctx context.Context, id, role string, clientID *string) error

	// Credentials
	CreateCredential(ctx context.Context, c *Credential) error
	GetCredential(ctx context.Context, id string) (*Credential, error)
	ListCredentials(ctx context.Context) ([]CredentialSummary, error)
	// LinkedClientIDs deriva el conjunto de tenants con acceso a la
	// credencial: la unión de client_id sobre los Domain y Hosting que la
	// referencian. Puede ser vacío (credencial sin vincular: sólo ADMIN).
	LinkedClientIDs(ctx context.Context, credentialID string) ([]string, error)

	// Domains
	CreateDomain(ctx context.Context, d *Domain) error
	GetDomain(ctx context.Context, id string) (*Domain, error)
	ListDomains(ctx context.Context, clientID *string) ([]Domain, error)

	// Hosting
	CreateHosting(ctx context.Context, h *Hosting) error
	GetHosting(ctx context.Context, id string) (*Hosting, error)
	ListHosting(ctx context.Context, clientID *string) ([]Hosting, error)

	// Documents
	CreateDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, clientID *string) ([]Document, error)

	// Support tickets
	CreateTicket(ctx context.Context, t *SupportTicket) error
	GetTicket(ctx context.Context, id string) (*SupportTicket, error)
	ListTickets(ctx context.Context, clientID *string) ([]SupportTicket, error)
	SetTicketStatus(ctx context.Context, id, status string) error

	// Invites
	CreateInvite(ctx context.Context, i *ClientInvite) error
	GetInviteByTokenHash(ctx context.Context, tokenHash string) (*ClientInvite, error)
	MarkInviteUsed(ctx context.Context, id string, usedAt time.Time) error
	ListInvites(ctx context.Context, clientID *string) ([]ClientInvite, error)

	// Secret access log (append-only: no hay update ni delete)
	AppendSecretAccess(ctx context.Context, e *SecretAccessLog) error
	ListSecretAccess(ctx context.Context, limit int) ([]SecretAccessLog, error)
	CountSecretAccess(ctx context.Context, credentialID string) (int64, error)

	Ping(ctx context.Context) error
	Close()
}
