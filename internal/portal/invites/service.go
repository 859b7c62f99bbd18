// Package invites maneja el ciclo de vida de las invitaciones: alta por
// un ADMIN, correo con token de un solo uso, y aceptación que crea el
// usuario CLIENT.
package invites

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/email"
	httperrors "github.com/dropDatabas3/clientdesk/internal/http/errors"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
	"github.com/dropDatabas3/clientdesk/internal/security/password"
	"github.com/dropDatabas3/clientdesk/internal/security/token"
)

const (
	defaultExpiryDays = 7
	minExpiryDays     = 1
	maxExpiryDays     = 60

	tokenBytes = 24
)

type Service struct {
	store   repository.Store
	sender  email.Sender
	baseURL string
}

func NewService(store repository.Store, sender email.Sender, baseURL string) *Service {
	return &Service{store: store, sender: sender, baseURL: strings.TrimRight(baseURL, "/")}
}

type CreateInput struct {
	Email         string `json:"email"`
	ClientID      string `json:"clientId"`
	ExpiresInDays int    `json:"expiresInDays,omitempty"`
}

// CreateResult incluye el token en claro: es la única vez que existe fuera
// del correo. El portal persiste sólo el hash.
type CreateResult struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*CreateResult, *httperrors.AppError) {
	addr := strings.TrimSpace(in.Email)
	if addr == "" || in.ClientID == "" {
		return nil, httperrors.ErrMissingFields
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return nil, httperrors.ErrInvalidFormat.WithDetail("email inválido")
	}

	days := in.ExpiresInDays
	if days == 0 {
		days = defaultExpiryDays
	}
	if days < minExpiryDays || days > maxExpiryDays {
		return nil, httperrors.ErrInvalidFormat.WithDetail("expiresInDays fuera de rango (1..60)")
	}

	if _, err := s.store.GetClient(ctx, in.ClientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrClientNotFound
		}
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	raw, err := token.GenerateOpaqueToken(tokenBytes)
	if err != nil {
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	inv := &repository.ClientInvite{
		Email:     addr,
		ClientID:  in.ClientID,
		TokenHash: token.SHA256Hex(raw),
		ExpiresAt: time.Now().UTC().AddDate(0, 0, days),
	}
	if err := s.store.CreateInvite(ctx, inv); err != nil {
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	subject, htmlBody, textBody := email.InviteMail(s.baseURL, raw, inv.ExpiresAt)
	if err := s.sender.Send(addr, subject, htmlBody, textBody); err != nil {
		// La invitación queda creada; el ADMIN puede reenviar el link a mano.
		logger.From(ctx).Warn("invite_mail_failed", logger.Err(err))
	}

	logger.From(ctx).Info("invite_created", logger.ClientID(in.ClientID))
	return &CreateResult{ID: inv.ID, Token: raw, ExpiresAt: inv.ExpiresAt}, nil
}

type AcceptInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Accept consume una invitación válida y crea el usuario CLIENT.
// El token se compara por hash; usado o vencido responde lo mismo para no
// filtrar cuál de las dos condiciones falló.
func (s *Service) Accept(ctx context.Context, in AcceptInput) (*repository.AppUser, *httperrors.AppError) {
	if in.Token == "" || in.Password == "" {
		return nil, httperrors.ErrMissingFields
	}
	if len(in.Password) < 8 || len(in.Password) > 128 {
		return nil, httperrors.ErrPasswordTooWeak
	}

	inv, err := s.store.GetInviteByTokenHash(ctx, token.SHA256Hex(in.Token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, httperrors.ErrInviteExpired
		}
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}
	now := time.Now().UTC()
	if inv.UsedAt != nil || now.After(inv.ExpiresAt) {
		return nil, httperrors.ErrInviteExpired
	}

	hash, err := password.Hash(password.Default, in.Password)
	if err != nil {
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	clientID := inv.ClientID
	// Los usuarios locales usan su propio ID como subject: las sesiones
	// que se emitan para ellos llevan sub = id.
	id := uuid.NewString()
	user := &repository.AppUser{
		ID:           id,
		Subject:      &id,
		Email:        inv.Email,
		Role:         "CLIENT",
		ClientID:     &clientID,
		PasswordHash: &hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, httperrors.ErrEmailAlreadyInUse
		}
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	if err := s.store.MarkInviteUsed(ctx, inv.ID, now); err != nil {
		return nil, httperrors.ErrInternalServerError.WithCause(err)
	}

	logger.From(ctx).Info("invite_accepted",
		logger.UserID(user.ID),
		logger.ClientID(inv.ClientID),
	)
	return user, nil
}
