// Package audit registra los accesos a secretos.
//
// El registro es doble: una fila inmutable en secret_access_log (la fuente
// de verdad) y un evento estructurado en el log de la app. Nunca se
// registra el secreto ni material del sobre, sólo metadata.
package audit

import (
	"context"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
)

// Recorder persiste eventos de acceso a secretos.
type Recorder struct {
	store repository.Store
}

func NewRecorder(store repository.Store) *Recorder {
	return &Recorder{store: store}
}

// RecordReveal agrega exactamente una fila por reveal exitoso. Si la fila
// no se puede persistir el error se propaga: el caller no debe responder
// el secreto sin registro.
func (r *Recorder) RecordReveal(ctx context.Context, userID, credentialID string) error {
	entry := &repository.SecretAccessLog{
		UserID:       userID,
		CredentialID: credentialID,
		Action:       repository.ActionReveal,
	}
	if err := r.store.AppendSecretAccess(ctx, entry); err != nil {
		return err
	}
	logger.From(ctx).Info("secret_access",
		logger.Action(repository.ActionReveal),
		logger.UserID(userID),
		logger.CredentialID(credentialID),
	)
	return nil
}

// Recent devuelve las últimas entradas del log, más nuevas primero.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]repository.SecretAccessLog, error) {
	return r.store.ListSecretAccess(ctx, limit)
}

// CountForCredential cuenta los accesos registrados de una credencial.
func (r *Recorder) CountForCredential(ctx context.Context, credentialID string) (int64, error) {
	return r.store.CountSecretAccess(ctx, credentialID)
}
