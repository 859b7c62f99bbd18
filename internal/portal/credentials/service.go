// Package credentials implementa la custodia de credenciales del portal:
// alta con cifrado de sobre y el protocolo de revelado auditado.
package credentials

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/audit"
	"github.com/dropDatabas3/clientdesk/internal/authz"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
)

type Service struct {
	store    repository.Store
	box      secretbox.Provider
	recorder *audit.Recorder
}

func NewService(store repository.Store, box secretbox.Provider, recorder *audit.Recorder) *Service {
	return &Service{store: store, box: box, recorder: recorder}
}

// CreateInput es el alta de una credencial. El secreto llega en claro una
// única vez y se cifra antes de tocar el store.
type CreateInput struct {
	Label    string  `json:"label"`
	Username *string `json:"username,omitempty"`
	Secret   string  `json:"secret"`
}

func (in *CreateInput) validate() *httperrors.AppError {
	if strings.TrimSpace(in.Label) == "" || in.Secret == "" {
		return httperrors.ErrMissingFields
	}
	if len(strings.TrimSpace(in.Label)) < 2 {
		return httperrors.ErrInvalidFormat.WithDetail("label: mínimo 2 caracteres")
	}
	return nil
}

// Create cifra y persiste una credencial nueva. Devuelve sólo el ID: el
// secreto no se repite en la respuesta.
func (s *Service) Create(ctx context.Context, in CreateInput) (string, *httperrors.AppError) {
	if appErr := in.validate(); appErr != nil {
		return "", appErr
	}

	box, err := s.box()
	if err != nil {
		logger.From(ctx).Error("credential_box_unavailable", logger.Err(err))
		return "", httperrors.ErrInternalServerError.WithCause(err)
	}
	env, err := box.Seal(in.Secret)
	if err != nil {
		return "", httperrors.ErrInternalServerError.WithCause(err)
	}

	cred := &repository.Credential{
		Label:    strings.TrimSpace(in.Label),
		Username: in.Username,
		Envelope: env,
	}
	if err := s.store.CreateCredential(ctx, cred); err != nil {
		return "", httperrors.ErrInternalServerError.WithCause(err)
	}

	logger.From(ctx).Info("credential_created", logger.CredentialID(cred.ID))
	return cred.ID, nil
}

// List devuelve metadata de todas las credenciales (sólo ADMIN llega acá).
func (s *Service) List(ctx context.Context) ([]repository.CredentialSummary, *httperrors.AppError) {
	out, err := s.store.ListCredentials(ctx)
	if err != nil {
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}
	return out, nil
}

// RevealResult es la respuesta de un revelado exitoso.
type RevealResult struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Username *string `json:"username,omitempty"`
	Secret   string  `json:"secret"`
}

// Reveal ejecuta el protocolo de revelado:
//
//  1. valida el ID pedido
//  2. busca la credencial
//  3. autoriza: ADMIN siempre; CLIENT sólo si su tenant pertenece al
//     conjunto de tenants vinculados a la credencial
//  4. descifra (fail-closed: cualquier falla corta sin responder nada)
//  5. registra exactamente una fila de auditoría
//  6. recién entonces devuelve el secreto
//
// Una denegación de permiso no genera fila de auditoría: el log registra
// accesos al secreto, no intentos.
func (s *Service) Reveal(ctx context.Context, p *authz.Principal, credentialID string) (*RevealResult, *httperrors.AppError) {
	if _, err := uuid.Parse(credentialID); err != nil {
		observeReveal("invalid_id")
		return nil, httperrors.ErrInvalidParameter.WithDetail("credentialId debe ser un UUID")
	}

	cred, err := s.store.GetCredential(ctx, credentialID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			observeReveal("not_found")
			return nil, httperrors.ErrNotFound
		}
		observeReveal("error")
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	if !p.IsAdmin() {
		linked, err := s.store.LinkedClientIDs(ctx, credentialID)
		if err != nil {
			observeReveal("error")
			return nil, httperrors.ErrInternalServerError.WithCause(err)
		}
		if !authz.CanAccessAny(*p, linked) {
			observeReveal("forbidden")
			logger.From(ctx).Warn("credential_reveal_denied",
				logger.UserID(p.ID),
				logger.CredentialID(credentialID),
			)
			return nil, httperrors.ErrForbidden
		}
	}

	box, err := s.box()
	if err != nil {
		// Clave ausente o inválida: error de configuración, nunca de usuario.
		observeReveal("decrypt_failed")
		logger.From(ctx).Error("credential_box_unavailable", logger.Err(err))
		return nil, httperrors.ErrInternalServerError
	}

	secret, err := box.Open(cred.Envelope)
	if err != nil {
		// Sobre corrupto o clave equivocada: nunca se responde material
		// parcial. El detalle queda en el log, no en la respuesta.
		observeReveal("decrypt_failed")
		logger.From(ctx).Error("credential_open_failed",
			logger.CredentialID(credentialID),
			logger.Err(err),
		)
		return nil, httperrors.ErrInternalServerError
	}

	// Sin fila de auditoría no hay secreto.
	if err := s.recorder.RecordReveal(ctx, p.ID, credentialID); err != nil {
		observeReveal("audit_failed")
		logger.From(ctx).Error("credential_audit_failed",
			logger.CredentialID(credentialID),
			logger.Err(err),
		)
		return nil, httperrors.ErrInternalServerError
	}

	observeReveal("ok")
	return &RevealResult{
		ID:       cred.ID,
		Label:    cred.Label,
		Username: cred.Username,
		Secret:   secret,
	}, nil
}
