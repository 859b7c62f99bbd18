// Package memory implementa repository.Store sobre mapas en memoria.
// Se usa en tests unitarios y en modo dev sin Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

type Store struct {
	mu sync.RWMutex

	clients     map[string]repository.Client
	users       map[string]repository.AppUser
	credentials map[string]repository.Credential
	domains     map[string]repository.Domain
	hostings    map[string]repository.Hosting
	documents   map[string]repository.Document
	tickets     map[string]repository.SupportTicket
	invites     map[string]repository.ClientInvite
	accessLog   []repository.SecretAccessLog
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		clients:     map[string]repository.Client{},
		users:       map[string]repository.AppUser{},
		credentials: map[string]repository.Credential{},
		domains:     map[string]repository.Domain{},
		hostings:    map[string]repository.Hosting{},
		documents:   map[string]repository.Document{},
		tickets:     map[string]repository.SupportTicket{},
		invites:     map[string]repository.ClientInvite{},
	}
}

func newID(id string) string {
	if strings.TrimSpace(id) != "" {
		return id
	}
	return uuid.NewString()
}

// ---- Clients ----

func (s *Store) CreateClient(_ context.Context, c *repository.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.clients[c.ID] = *c
	return nil
}

func (s *Store) GetClient(_ context.Context, id string) (*repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *Store) ListClients(_ context.Context) ([]repository.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- Users ----

func validUser(u *repository.AppUser) error {
	switch u.Role {
	case "ADMIN":
		if u.ClientID != nil {
			return repository.ErrInvalidInput
		}
	case "CLIENT":
		if u.ClientID == nil || strings.TrimSpace(*u.ClientID) == "" {
			return repository.ErrInvalidInput
		}
	default:
		return repository.ErrInvalidInput
	}
	return nil
}

func (s *Store) CreateUser(_ context.Context, u *repository.AppUser) error {
	if err := validUser(u); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return repository.ErrConflict
		}
		if u.Subject != nil && other.Subject != nil && *other.Subject == *u.Subject {
			return repository.ErrConflict
		}
	}
	u.ID = newID(u.ID)
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id string) (*repository.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := u
	return &out, nil
}

func (s *Store) GetUserBySubject(_ context.Context, subject string) (*repository.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Subject != nil && *u.Subject == subject {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*repository.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out := u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context, clientID *string) ([]repository.AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.AppUser
	for _, u := range s.users {
		if clientID != nil && (u.ClientID == nil || *u.ClientID != *clientID) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateUserRole(_ context.Context, id, role string, clientID *string) error {
	tmp := repository.AppUser{Role: role, ClientID: clientID}
	if err := validUser(&tmp); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Role, u.ClientID = role, clientID
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return nil
}

// ---- Credentials ----

func (s *Store) CreateCredential(_ context.Context, c *repository.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = newID(c.ID)
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now
	s.credentials[c.ID] = *c
	return nil
}

func (s *Store) GetCredential(_ context.Context, id string) (*repository.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := c
	return &out, nil
}

func (s *Store) ListCredentials(_ context.Context) ([]repository.CredentialSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]repository.CredentialSummary, 0, len(s.credentials))
	for _, c := range s.credentials {
		out = append(out, repository.CredentialSummary{
			ID: c.ID, Label: c.Label, Username: c.Username, CreatedAt: c.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) LinkedClientIDs(_ context.Context, credentialID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, d := range s.domains {
		if d.CredentialID != nil && *d.CredentialID == credentialID {
			set[d.ClientID] = struct{}{}
		}
	}
	for _, h := range s.hostings {
		if h.CredentialID != nil && *h.CredentialID == credentialID {
			set[h.ClientID] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// ---- Domains ----

func (s *Store) CreateDomain(_ context.Context, d *repository.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[d.ClientID]; !ok {
		return repository.ErrInvalidInput
	}
	d.ID = newID(d.ID)
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	s.domains[d.ID] = *d
	return nil
}

func (s *Store) GetDomain(_ context.Context, id string) (*repository.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := d
	return &out, nil
}

func (s *Store) ListDomains(_ context.Context, clientID *string) ([]repository.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Domain
	for _, d := range s.domains {
		if clientID != nil && d.ClientID != *clientID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- Hosting ----

func (s *Store) CreateHosting(_ context.Context, h *repository.Hosting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[h.ClientID]; !ok {
		return repository.ErrInvalidInput
	}
	h.ID = newID(h.ID)
	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	s.hostings[h.ID] = *h
	return nil
}

func (s *Store) GetHosting(_ context.Context, id string) (*repository.Hosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hostings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := h
	return &out, nil
}

func (s *Store) ListHosting(_ context.Context, clientID *string) ([]repository.Hosting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Hosting
	for _, h := range s.hostings {
		if clientID != nil && h.ClientID != *clientID {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- Documents ----

func (s *Store) CreateDocument(_ context.Context, d *repository.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[d.ClientID]; !ok {
		return repository.ErrInvalidInput
	}
	d.ID = newID(d.ID)
	d.CreatedAt = time.Now().UTC()
	s.documents[d.ID] = *d
	return nil
}

func (s *Store) ListDocuments(_ context.Context, clientID *string) ([]repository.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.Document
	for _, d := range s.documents {
		if clientID != nil && d.ClientID != *clientID {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- Support tickets ----

func (s *Store) CreateTicket(_ context.Context, t *repository.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[t.ClientID]; !ok {
		return repository.ErrInvalidInput
	}
	t.ID = newID(t.ID)
	if t.Status == "" {
		t.Status = repository.TicketOpen
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	s.tickets[t.ID] = *t
	return nil
}

func (s *Store) GetTicket(_ context.Context, id string) (*repository.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := t
	return &out, nil
}

func (s *Store) ListTickets(_ context.Context, clientID *string) ([]repository.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.SupportTicket
	for _, t := range s.tickets {
		if clientID != nil && t.ClientID != *clientID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) SetTicketStatus(_ context.Context, id, status string) error {
	if status != repository.TicketOpen && status != repository.TicketClosed {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	s.tickets[id] = t
	return nil
}

// ---- Invites ----

func (s *Store) CreateInvite(_ context.Context, i *repository.ClientInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.invites {
		if other.TokenHash == i.TokenHash {
			return repository.ErrConflict
		}
	}
	i.ID = newID(i.ID)
	i.CreatedAt = time.Now().UTC()
	s.invites[i.ID] = *i
	return nil
}

func (s *Store) GetInviteByTokenHash(_ context.Context, tokenHash string) (*repository.ClientInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.invites {
		if i.TokenHash == tokenHash {
			out := i
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) MarkInviteUsed(_ context.Context, id string, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.invites[id]
	if !ok {
		return repository.ErrNotFound
	}
	i.UsedAt = &usedAt
	s.invites[id] = i
	return nil
}

func (s *Store) ListInvites(_ context.Context, clientID *string) ([]repository.ClientInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []repository.ClientInvite
	for _, i := range s.invites {
		if clientID != nil && i.ClientID != *clientID {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- Secret access log ----

func (s *Store) AppendSecretAccess(_ context.Context, e *repository.SecretAccessLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = newID(e.ID)
	if e.Action == "" {
		e.Action = repository.ActionReveal
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.accessLog = append(s.accessLog, *e)
	return nil
}

func (s *Store) ListSecretAccess(_ context.Context, limit int) ([]repository.SecretAccessLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.accessLog)
	if limit <= 0 || limit > n {
		limit = n
	}
	// newest first
	out := make([]repository.SecretAccessLog, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.accessLog[i])
	}
	return out, nil
}

func (s *Store) CountSecretAccess(_ context.Context, credentialID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, e := range s.accessLog {
		if e.CredentialID == credentialID {
			n++
		}
	}
	return n, nil
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}
