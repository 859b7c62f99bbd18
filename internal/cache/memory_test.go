package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemory_SetGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemory("test", time.Minute)

	_, ok, err := c.Get(ctx, "falta")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.Set(ctx, "k1", []byte("valor"), 0))
	v, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("valor"), v)

	require.NoError(t, c.Delete(ctx, "k1"))
	_, ok, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	require.False(t, ok)

	// Delete es idempotente.
	require.NoError(t, c.Delete(ctx, "k1"))
}

func TestMemory_TTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemory("", time.Minute)

	require.NoError(t, c.Set(ctx, "efímera", []byte("x"), 20*time.Millisecond))
	_, ok, err := c.Get(ctx, "efímera")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)
	_, ok, err = c.Get(ctx, "efímera")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemory_PrefixIsolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	a := NewMemory("a", time.Minute)
	b := NewMemory("b", time.Minute)

	require.NoError(t, a.Set(ctx, "k", []byte("de-a"), 0))
	_, ok, err := b.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNew_DriverSelection(t *testing.T) {
	t.Parallel()

	c, err := New(Config{Driver: "memory", DefaultTTL: time.Minute})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))
	require.NoError(t, c.Close())

	// Driver vacío o desconocido cae a memory.
	c, err = New(Config{})
	require.NoError(t, err)
	require.NoError(t, c.Ping(context.Background()))
}
