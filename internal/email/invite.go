package email

import (
	"fmt"
	"net/url"
	"time"
)

// InviteMail arma el correo de invitación al portal. El token viaja en el
// link una única vez; el portal sólo guarda su hash.
func InviteMail(baseURL, token string, expiresAt time.Time) (subject, htmlBody, textBody string) {
	link := fmt.Sprintf("%s/invite/accept?token=%s", baseURL, url.QueryEscape(token))
	expiry := expiresAt.UTC().Format("2006-01-02 15:04 MST")

	subject = "Invitación al portal de clientes"

	textBody = fmt.Sprintf(
		"Te invitaron al portal de clientes.\n\n"+
			"Aceptá la invitación acá: %s\n\n"+
			"El link vence el %s. Si no esperabas este correo, ignoralo.\n",
		link, expiry,
	)

	htmlBody = fmt.Sprintf(
		`<p>Te invitaron al portal de clientes.</p>`+
			`<p><a href="%s">Aceptar invitación</a></p>`+
			`<p>El link vence el %s. Si no esperabas este correo, ignoralo.</p>`,
		link, expiry,
	)
	return subject, htmlBody, textBody
}
