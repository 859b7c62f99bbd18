package credentials

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clientdesk/internal/audit"
	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
	"github.com/dropDatabas3/clientdesk/internal/store/memory"
)

func strPtr(s string) *string { return &s }

func testBox(t *testing.T) *secretbox.Box {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	box, err := secretbox.NewBoxRaw(key)
	require.NoError(t, err)
	return box
}

// fixture arma un store en memoria con dos tenants, una credencial
// vinculada al primero vía dominio y una credencial sin vincular.
type fixture struct {
	store   *memory.Store
	svc     *Service
	admin   authz.Principal
	owner   authz.Principal // CLIENT del tenant vinculado
	outside authz.Principal // CLIENT de otro tenant

	linkedID   string
	unlinkedID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	box := testBox(t)
	svc := NewService(st, secretbox.Fixed(box), audit.NewRecorder(st))

	c1 := &repository.Client{Name: "Tenant Uno", EmailPrimary: "uno@x.com"}
	c2 := &repository.Client{Name: "Tenant Dos", EmailPrimary: "dos@x.com"}
	require.NoError(t, st.CreateClient(ctx, c1))
	require.NoError(t, st.CreateClient(ctx, c2))

	env, err := box.Seal("hunter2")
	require.NoError(t, err)
	linked := &repository.Credential{Label: "panel registrador", Envelope: env}
	require.NoError(t, st.CreateCredential(ctx, linked))

	env2, err := box.Seal("s3creto")
	require.NoError(t, err)
	unlinked := &repository.Credential{Label: "sin vincular", Envelope: env2}
	require.NoError(t, st.CreateCredential(ctx, unlinked))

	require.NoError(t, st.CreateDomain(ctx, &repository.Domain{
		ClientID:     c1.ID,
		DomainName:   "uno.test",
		Registrar:    "nic.test",
		Nameservers:  "ns1.test",
		CredentialID: &linked.ID,
	}))

	admin, err := authz.NewPrincipal("u-admin", "admin@x.com", authz.RoleAdmin, nil)
	require.NoError(t, err)
	owner, err := authz.NewPrincipal("u-owner", "owner@x.com", authz.RoleClient, &c1.ID)
	require.NoError(t, err)
	outside, err := authz.NewPrincipal("u-out", "out@x.com", authz.RoleClient, &c2.ID)
	require.NoError(t, err)

	return &fixture{
		store: st, svc: svc,
		admin: admin, owner: owner, outside: outside,
		linkedID: linked.ID, unlinkedID: unlinked.ID,
	}
}

func TestReveal_TenantIsolation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	t.Run("client del tenant vinculado accede", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.owner, f.linkedID)
		require.Nil(t, appErr)
		require.Equal(t, "hunter2", res.Secret)
		require.Equal(t, f.linkedID, res.ID)
	})

	t.Run("client de otro tenant recibe 403", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.outside, f.linkedID)
		require.Nil(t, res)
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	})

	t.Run("admin accede sin vínculo", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.admin, f.unlinkedID)
		require.Nil(t, appErr)
		require.Equal(t, "s3creto", res.Secret)
	})

	t.Run("credencial sin vincular deniega a cualquier client", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.owner, f.unlinkedID)
		require.Nil(t, res)
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	})
}

// Una credencial compartida (vinculada a un tenant vía dominio y a otro vía
// hosting) es revelable por los CLIENT de ambos tenants, y por nadie más.
func TestReveal_SharedCredential(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// La credencial vinculada gana un segundo tenant: hosting del tenant dos.
	require.NoError(t, f.store.CreateHosting(ctx, &repository.Hosting{
		ClientID:     *f.outside.ClientID,
		Provider:     "hetzner",
		CredentialID: &f.linkedID,
	}))

	c3 := &repository.Client{Name: "Tenant Tres", EmailPrimary: "tres@x.com"}
	require.NoError(t, f.store.CreateClient(ctx, c3))
	third, err := authz.NewPrincipal("u-third", "third@x.com", authz.RoleClient, &c3.ID)
	require.NoError(t, err)

	t.Run("client vinculado por dominio accede", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.owner, f.linkedID)
		require.Nil(t, appErr)
		require.Equal(t, "hunter2", res.Secret)
	})

	t.Run("client vinculado por hosting accede", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &f.outside, f.linkedID)
		require.Nil(t, appErr)
		require.Equal(t, "hunter2", res.Secret)
	})

	t.Run("un tercer tenant recibe 403", func(t *testing.T) {
		res, appErr := f.svc.Reveal(ctx, &third, f.linkedID)
		require.Nil(t, res)
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
	})

	// Dos reveals exitosos, una denegación: exactamente dos filas.
	n, err := f.store.CountSecretAccess(ctx, f.linkedID)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

// Sin clave configurada el servicio responde 500 en los caminos que cifran;
// el error aparece en el uso, nunca tumba el proceso.
func TestReveal_NoKeyConfigured(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	noKey := func() (*secretbox.Box, error) { return nil, secretbox.ErrNoKey }
	svc := NewService(f.store, noKey, audit.NewRecorder(f.store))

	res, appErr := svc.Reveal(ctx, &f.admin, f.linkedID)
	require.Nil(t, res)
	require.NotNil(t, appErr)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)

	// Sin secreto entregado no hay fila de auditoría.
	n, err := f.store.CountSecretAccess(ctx, f.linkedID)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)

	_, appErr = svc.Create(ctx, CreateInput{Label: "panel", Secret: "x"})
	require.NotNil(t, appErr)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)
}

func TestReveal_InputErrors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	t.Run("id que no es UUID", func(t *testing.T) {
		_, appErr := f.svc.Reveal(ctx, &f.admin, "no-es-uuid")
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	})

	t.Run("credencial inexistente", func(t *testing.T) {
		_, appErr := f.svc.Reveal(ctx, &f.admin, uuid.NewString())
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
	})
}

// El log de auditoría registra exactamente una fila por reveal exitoso y
// ninguna por intento fallido.
func TestReveal_AuditInvariant(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, appErr := f.svc.Reveal(ctx, &f.owner, f.linkedID)
		require.Nil(t, appErr)
	}
	for i := 0; i < 2; i++ {
		_, appErr := f.svc.Reveal(ctx, &f.admin, f.linkedID)
		require.Nil(t, appErr)
	}

	// Fallidos: permiso denegado, inexistente, id inválido.
	_, appErr := f.svc.Reveal(ctx, &f.outside, f.linkedID)
	require.NotNil(t, appErr)
	_, appErr = f.svc.Reveal(ctx, &f.admin, uuid.NewString())
	require.NotNil(t, appErr)
	_, appErr = f.svc.Reveal(ctx, &f.admin, "zzz")
	require.NotNil(t, appErr)

	n, err := f.store.CountSecretAccess(ctx, f.linkedID)
	require.NoError(t, err)
	require.EqualValues(t, 5, n)

	entries, err := f.store.ListSecretAccess(ctx, 100)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, e := range entries {
		require.Equal(t, repository.ActionReveal, e.Action)
		require.Equal(t, f.linkedID, e.CredentialID)
	}
}

func TestReveal_DecryptFailureIsFailClosed(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	// Sobre con ciphertext alterado: el tag no verifica.
	cred, err := f.store.GetCredential(ctx, f.linkedID)
	require.NoError(t, err)
	broken := &repository.Credential{
		Label: "rota",
		Envelope: secretbox.Envelope{
			Ciphertext: cred.Envelope.Nonce, // base64 válido, contenido ajeno
			Nonce:      cred.Envelope.Nonce,
			AuthTag:    cred.Envelope.AuthTag,
		},
	}
	require.NoError(t, f.store.CreateCredential(ctx, broken))

	res, appErr := f.svc.Reveal(ctx, &f.admin, broken.ID)
	require.Nil(t, res)
	require.NotNil(t, appErr)
	require.Equal(t, http.StatusInternalServerError, appErr.HTTPStatus)

	// Sin secreto entregado no hay fila de auditoría.
	n, err := f.store.CountSecretAccess(ctx, broken.ID)
	require.NoError(t, err)
	require.EqualValues(t, 0, n)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		want int
	}{
		{"sin label", CreateInput{Secret: "x"}, http.StatusBadRequest},
		{"sin secret", CreateInput{Label: "panel"}, http.StatusBadRequest},
		{"label muy corto", CreateInput{Label: "a", Secret: "x"}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := f.svc.Create(ctx, tc.in)
			require.NotNil(t, appErr)
			require.Equal(t, tc.want, appErr.HTTPStatus)
		})
	}

	t.Run("alta válida devuelve sólo el id y cifra en reposo", func(t *testing.T) {
		id, appErr := f.svc.Create(ctx, CreateInput{
			Label:    "  FTP producción  ",
			Username: strPtr("deploy"),
			Secret:   "hunter2",
		})
		require.Nil(t, appErr)
		require.NotEmpty(t, id)

		cred, err := f.store.GetCredential(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "FTP producción", cred.Label)
		require.NotContains(t, cred.Envelope.Ciphertext, "hunter2")

		res, appErr := f.svc.Reveal(ctx, &f.admin, id)
		require.Nil(t, appErr)
		require.Equal(t, "hunter2", res.Secret)
	})
}
