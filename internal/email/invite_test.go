package email

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInviteMail(t *testing.T) {
	t.Parallel()

	expires := time.Date(2026, 9, 8, 12, 0, 0, 0, time.UTC)
	subject, htmlBody, textBody := InviteMail("https://portal.test", "tok_abc/+=", expires)

	require.NotEmpty(t, subject)

	// El token va escapado en el link, en ambos cuerpos.
	require.Contains(t, htmlBody, "https://portal.test/invite/accept?token=tok_abc%2F%2B%3D")
	require.Contains(t, textBody, "https://portal.test/invite/accept?token=tok_abc%2F%2B%3D")

	// La fecha de vencimiento aparece en el cuerpo.
	require.Contains(t, textBody, "2026-09-08")
	require.Contains(t, htmlBody, "2026-09-08")
}
