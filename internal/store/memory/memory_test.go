package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

func seedClient(t *testing.T, s *Store, name string) string {
	t.Helper()
	c := &repository.Client{Name: name, EmailPrimary: name + "@x.com"}
	require.NoError(t, s.CreateClient(context.Background(), c))
	return c.ID
}

func TestUsers_InvariantAndUniqueness(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	clientID := seedClient(t, s, "acme")

	t.Run("admin con cliente es inválido", func(t *testing.T) {
		err := s.CreateUser(ctx, &repository.AppUser{
			Email: "a@x.com", Role: "ADMIN", ClientID: &clientID,
		})
		require.True(t, errors.Is(err, repository.ErrInvalidInput))
	})

	t.Run("client sin cliente es inválido", func(t *testing.T) {
		err := s.CreateUser(ctx, &repository.AppUser{Email: "b@x.com", Role: "CLIENT"})
		require.True(t, errors.Is(err, repository.ErrInvalidInput))
	})

	t.Run("email duplicado conflictúa sin importar mayúsculas", func(t *testing.T) {
		require.NoError(t, s.CreateUser(ctx, &repository.AppUser{
			Email: "dup@x.com", Role: "CLIENT", ClientID: &clientID,
		}))
		err := s.CreateUser(ctx, &repository.AppUser{
			Email: "DUP@x.com", Role: "CLIENT", ClientID: &clientID,
		})
		require.True(t, errors.Is(err, repository.ErrConflict))
	})

	t.Run("subject duplicado conflictúa", func(t *testing.T) {
		sub := "idp|mismo"
		require.NoError(t, s.CreateUser(ctx, &repository.AppUser{
			Subject: &sub, Email: "s1@x.com", Role: "ADMIN",
		}))
		err := s.CreateUser(ctx, &repository.AppUser{
			Subject: &sub, Email: "s2@x.com", Role: "ADMIN",
		})
		require.True(t, errors.Is(err, repository.ErrConflict))
	})

	t.Run("update de rol revalida el invariante", func(t *testing.T) {
		u := &repository.AppUser{Email: "rol@x.com", Role: "CLIENT", ClientID: &clientID}
		require.NoError(t, s.CreateUser(ctx, u))

		err := s.UpdateUserRole(ctx, u.ID, "ADMIN", &clientID)
		require.True(t, errors.Is(err, repository.ErrInvalidInput))

		require.NoError(t, s.UpdateUserRole(ctx, u.ID, "ADMIN", nil))
		got, err := s.GetUser(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "ADMIN", got.Role)
		require.Nil(t, got.ClientID)
	})
}

func TestLinkedClientIDs_UnionOverDomainsAndHosting(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	c1 := seedClient(t, s, "uno")
	c2 := seedClient(t, s, "dos")
	c3 := seedClient(t, s, "tres")

	cred := &repository.Credential{Label: "compartida"}
	require.NoError(t, s.CreateCredential(ctx, cred))

	require.NoError(t, s.CreateDomain(ctx, &repository.Domain{
		ClientID: c1, DomainName: "uno.test", Registrar: "nic", Nameservers: "ns1",
		CredentialID: &cred.ID,
	}))
	require.NoError(t, s.CreateHosting(ctx, &repository.Hosting{
		ClientID: c2, Provider: "hetzner", CredentialID: &cred.ID,
	}))
	// c3 tiene un dominio pero sin credencial: no entra en la unión.
	require.NoError(t, s.CreateDomain(ctx, &repository.Domain{
		ClientID: c3, DomainName: "tres.test", Registrar: "nic", Nameservers: "ns1",
	}))

	linked, err := s.LinkedClientIDs(ctx, cred.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{c1, c2}, linked)

	// Credencial sin vínculos: conjunto vacío, no error.
	otra := &repository.Credential{Label: "huérfana"}
	require.NoError(t, s.CreateCredential(ctx, otra))
	linked, err = s.LinkedClientIDs(ctx, otra.ID)
	require.NoError(t, err)
	require.Empty(t, linked)
}

func TestListFiltersByTenant(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	c1 := seedClient(t, s, "uno")
	c2 := seedClient(t, s, "dos")

	require.NoError(t, s.CreateDomain(ctx, &repository.Domain{
		ClientID: c1, DomainName: "a.test", Registrar: "nic", Nameservers: "ns1",
	}))
	require.NoError(t, s.CreateDomain(ctx, &repository.Domain{
		ClientID: c2, DomainName: "b.test", Registrar: "nic", Nameservers: "ns1",
	}))

	all, err := s.ListDomains(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	solo, err := s.ListDomains(ctx, &c1)
	require.NoError(t, err)
	require.Len(t, solo, 1)
	require.Equal(t, "a.test", solo[0].DomainName)
}

func TestAssetsRequireExistingClient(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	err := s.CreateDomain(ctx, &repository.Domain{
		ClientID: "no-existe", DomainName: "x.test", Registrar: "nic", Nameservers: "ns1",
	})
	require.True(t, errors.Is(err, repository.ErrInvalidInput))

	err = s.CreateHosting(ctx, &repository.Hosting{ClientID: "no-existe", Provider: "aws"})
	require.True(t, errors.Is(err, repository.ErrInvalidInput))

	err = s.CreateDocument(ctx, &repository.Document{
		ClientID: "no-existe", Title: "doc", StorageKey: "k",
	})
	require.True(t, errors.Is(err, repository.ErrInvalidInput))
}

func TestTickets_StatusTransitions(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	c1 := seedClient(t, s, "uno")

	tk := &repository.SupportTicket{ClientID: c1, UserID: "u1", Subject: "ayuda", Message: "no funciona nada"}
	require.NoError(t, s.CreateTicket(ctx, tk))
	require.Equal(t, repository.TicketOpen, tk.Status)

	require.NoError(t, s.SetTicketStatus(ctx, tk.ID, repository.TicketClosed))
	got, err := s.GetTicket(ctx, tk.ID)
	require.NoError(t, err)
	require.Equal(t, repository.TicketClosed, got.Status)

	err = s.SetTicketStatus(ctx, tk.ID, "ESCALATED")
	require.True(t, errors.Is(err, repository.ErrInvalidInput))

	err = s.SetTicketStatus(ctx, "no-existe", repository.TicketOpen)
	require.True(t, errors.Is(err, repository.ErrNotFound))

	// Un ticket no puede colgar de un cliente inexistente.
	err = s.CreateTicket(ctx, &repository.SupportTicket{
		ClientID: "no-existe", UserID: "u1", Subject: "ayuda", Message: "no funciona nada",
	})
	require.True(t, errors.Is(err, repository.ErrInvalidInput))
}

func TestSecretAccessLog_AppendOnlyOrdering(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e := &repository.SecretAccessLog{
			UserID:       "u1",
			CredentialID: "cred-1",
			CreatedAt:    time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.AppendSecretAccess(ctx, e))
		require.Equal(t, repository.ActionReveal, e.Action)
	}

	// Más nuevas primero.
	out, err := s.ListSecretAccess(ctx, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.True(t, out[0].CreatedAt.After(out[1].CreatedAt))

	n, err := s.CountSecretAccess(ctx, "cred-1")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	n, err = s.CountSecretAccess(ctx, "otra")
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestInvites_Lifecycle(t *testing.T) {
	t.Parallel()
	s := New()
	ctx := context.Background()
	c1 := seedClient(t, s, "uno")

	inv := &repository.ClientInvite{
		Email: "x@x.com", ClientID: c1, TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.CreateInvite(ctx, inv))

	// Hash duplicado conflictúa.
	err := s.CreateInvite(ctx, &repository.ClientInvite{
		Email: "y@x.com", ClientID: c1, TokenHash: "hash-1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.True(t, errors.Is(err, repository.ErrConflict))

	got, err := s.GetInviteByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.Nil(t, got.UsedAt)

	now := time.Now().UTC()
	require.NoError(t, s.MarkInviteUsed(ctx, got.ID, now))
	got, err = s.GetInviteByTokenHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got.UsedAt)

	_, err = s.GetInviteByTokenHash(ctx, "hash-inexistente")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}
