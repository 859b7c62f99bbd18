package authn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/cache"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/store/memory"
)

// countingStore cuenta los lookups por subject que llegan al store real.
type countingStore struct {
	repository.Store
	calls int
}

func (c *countingStore) GetUserBySubject(ctx context.Context, subject string) (*repository.AppUser, error) {
	c.calls++
	return c.Store.GetUserBySubject(ctx, subject)
}

func TestResolve_CacheHitAndInvalidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := memory.New()
	sub := "idp|abc123"
	require.NoError(t, mem.CreateUser(ctx, &repository.AppUser{
		Subject: &sub,
		Email:   "admin@x.com",
		Role:    "ADMIN",
	}))

	st := &countingStore{Store: mem}
	r := NewResolver(st, cache.NewMemory("test", time.Minute), time.Minute)

	p, err := r.Resolve(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, authz.RoleAdmin, p.Role)
	require.Nil(t, p.ClientID)
	require.Equal(t, 1, st.calls)

	// Segunda resolución sale del cache.
	p2, err := r.Resolve(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, p.ID, p2.ID)
	require.Equal(t, 1, st.calls)

	// Invalidate fuerza el próximo lookup a DB.
	r.Invalidate(ctx, sub)
	_, err = r.Resolve(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, 2, st.calls)
}

func TestResolve_UnknownSubject(t *testing.T) {
	t.Parallel()

	r := NewResolver(memory.New(), cache.NewMemory("test", time.Minute), time.Minute)
	_, err := r.Resolve(context.Background(), "idp|nadie")
	require.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestResolve_ClientPrincipalCarriesTenant(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := memory.New()
	c := &repository.Client{Name: "Acme", EmailPrimary: "acme@x.com"}
	require.NoError(t, mem.CreateClient(ctx, c))

	sub := "idp|cliente"
	require.NoError(t, mem.CreateUser(ctx, &repository.AppUser{
		Subject:  &sub,
		Email:    "user@acme.com",
		Role:     "CLIENT",
		ClientID: &c.ID,
	}))

	r := NewResolver(mem, cache.NewMemory("test", time.Minute), time.Minute)

	// Dos resoluciones, la segunda desde cache: mismo principal.
	for i := 0; i < 2; i++ {
		p, err := r.Resolve(ctx, sub)
		require.NoError(t, err)
		require.Equal(t, authz.RoleClient, p.Role)
		require.NotNil(t, p.ClientID)
		require.Equal(t, c.ID, *p.ClientID)
	}
}

func TestResolve_NilCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mem := memory.New()
	sub := "idp|sincache"
	require.NoError(t, mem.CreateUser(ctx, &repository.AppUser{
		Subject: &sub,
		Email:   "x@x.com",
		Role:    "ADMIN",
	}))

	r := NewResolver(mem, nil, 0)
	p, err := r.Resolve(ctx, sub)
	require.NoError(t, err)
	require.Equal(t, "x@x.com", p.Email)
}
