package invites

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/security/password"
	"github.com/dropDatabas3/clientdesk/internal/security/token"
	"github.com/dropDatabas3/clientdesk/internal/store/memory"
)

// captureSender guarda el último mail "enviado" para inspección.
type captureSender struct {
	to, subject, html, text string
	fail                    bool
	sent                    int
}

func (c *captureSender) Send(to, subject, htmlBody, textBody string) error {
	if c.fail {
		return errors.New("smtp caído")
	}
	c.to, c.subject, c.html, c.text = to, subject, htmlBody, textBody
	c.sent++
	return nil
}

func setup(t *testing.T) (*memory.Store, *captureSender, *Service, string) {
	t.Helper()
	st := memory.New()
	sender := &captureSender{}
	svc := NewService(st, sender, "https://portal.test/")

	c := &repository.Client{Name: "Acme", EmailPrimary: "acme@x.com"}
	require.NoError(t, st.CreateClient(context.Background(), c))
	return st, sender, svc, c.ID
}

func TestCreate_HappyPath(t *testing.T) {
	t.Parallel()
	st, sender, svc, clientID := setup(t)
	ctx := context.Background()

	res, appErr := svc.Create(ctx, CreateInput{Email: "nuevo@x.com", ClientID: clientID})
	require.Nil(t, appErr)
	require.NotEmpty(t, res.Token)
	require.Equal(t, 1, sender.sent)
	require.Equal(t, "nuevo@x.com", sender.to)
	require.Contains(t, sender.html, res.Token)

	// En DB queda sólo el hash, nunca el token en claro.
	inv, err := st.GetInviteByTokenHash(ctx, token.SHA256Hex(res.Token))
	require.NoError(t, err)
	require.Equal(t, clientID, inv.ClientID)
	require.NotEqual(t, res.Token, inv.TokenHash)

	// Default de vigencia: 7 días.
	got := time.Until(res.ExpiresAt)
	require.InDelta(t, (7 * 24 * time.Hour).Hours(), got.Hours(), 1)
}

func TestCreate_Validation(t *testing.T) {
	t.Parallel()
	_, _, svc, clientID := setup(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		want int
	}{
		{"sin email", CreateInput{ClientID: clientID}, http.StatusBadRequest},
		{"email inválido", CreateInput{Email: "no-es-mail", ClientID: clientID}, http.StatusBadRequest},
		{"sin cliente", CreateInput{Email: "a@x.com"}, http.StatusBadRequest},
		{"vigencia negativa", CreateInput{Email: "a@x.com", ClientID: clientID, ExpiresInDays: -1}, http.StatusBadRequest},
		{"vigencia excesiva", CreateInput{Email: "a@x.com", ClientID: clientID, ExpiresInDays: 61}, http.StatusBadRequest},
		{"cliente inexistente", CreateInput{Email: "a@x.com", ClientID: "otro"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, appErr := svc.Create(ctx, tc.in)
			require.NotNil(t, appErr)
			require.Equal(t, tc.want, appErr.HTTPStatus)
		})
	}
}

// La falla del SMTP no voltea el alta: la invitación queda creada y el
// ADMIN recibe el token igual.
func TestCreate_MailFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	st, sender, svc, clientID := setup(t)
	sender.fail = true

	res, appErr := svc.Create(context.Background(), CreateInput{Email: "nuevo@x.com", ClientID: clientID})
	require.Nil(t, appErr)
	require.NotEmpty(t, res.Token)

	_, err := st.GetInviteByTokenHash(context.Background(), token.SHA256Hex(res.Token))
	require.NoError(t, err)
}

func TestAccept_CreatesClientUser(t *testing.T) {
	t.Parallel()
	st, _, svc, clientID := setup(t)
	ctx := context.Background()

	res, appErr := svc.Create(ctx, CreateInput{Email: "nuevo@x.com", ClientID: clientID})
	require.Nil(t, appErr)

	user, appErr := svc.Accept(ctx, AcceptInput{Token: res.Token, Password: "Secreta!123"})
	require.Nil(t, appErr)
	require.Equal(t, "CLIENT", user.Role)
	require.Equal(t, "nuevo@x.com", user.Email)
	require.NotNil(t, user.ClientID)
	require.Equal(t, clientID, *user.ClientID)

	// El subject del usuario local es su propio id.
	require.NotNil(t, user.Subject)
	require.Equal(t, user.ID, *user.Subject)

	// El hash PHC verifica contra la contraseña elegida.
	require.NotNil(t, user.PasswordHash)
	require.True(t, strings.HasPrefix(*user.PasswordHash, "$argon2id$"))
	require.True(t, password.Verify("Secreta!123", *user.PasswordHash))

	// La invitación queda consumida.
	inv, err := st.GetInviteByTokenHash(ctx, token.SHA256Hex(res.Token))
	require.NoError(t, err)
	require.NotNil(t, inv.UsedAt)
}

func TestAccept_Rejections(t *testing.T) {
	t.Parallel()
	st, _, svc, clientID := setup(t)
	ctx := context.Background()

	res, appErr := svc.Create(ctx, CreateInput{Email: "nuevo@x.com", ClientID: clientID})
	require.Nil(t, appErr)

	t.Run("password corta", func(t *testing.T) {
		_, appErr := svc.Accept(ctx, AcceptInput{Token: res.Token, Password: "corta"})
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	})

	t.Run("password demasiado larga", func(t *testing.T) {
		_, appErr := svc.Accept(ctx, AcceptInput{Token: res.Token, Password: strings.Repeat("x", 129)})
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
	})

	t.Run("token desconocido", func(t *testing.T) {
		_, appErr := svc.Accept(ctx, AcceptInput{Token: "no-existe", Password: "Secreta!123"})
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	})

	t.Run("token vencido responde igual que usado", func(t *testing.T) {
		vencida := &repository.ClientInvite{
			Email:     "viejo@x.com",
			ClientID:  clientID,
			TokenHash: token.SHA256Hex("token-vencido"),
			ExpiresAt: time.Now().UTC().Add(-time.Hour),
		}
		require.NoError(t, st.CreateInvite(ctx, vencida))

		_, appErr := svc.Accept(ctx, AcceptInput{Token: "token-vencido", Password: "Secreta!123"})
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	})

	t.Run("reuso del mismo token", func(t *testing.T) {
		_, appErr := svc.Accept(ctx, AcceptInput{Token: res.Token, Password: "Secreta!123"})
		require.Nil(t, appErr)

		_, appErr = svc.Accept(ctx, AcceptInput{Token: res.Token, Password: "Secreta!123"})
		require.NotNil(t, appErr)
		require.Equal(t, http.StatusUnauthorized, appErr.HTTPStatus)
	})
}
