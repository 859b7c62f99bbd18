// Package app agrupa las dependencias compartidas del portal.
package app

import (
	"github.com/dropDatabas3/clientdesk/internal/audit"
	"github.com/dropDatabas3/clientdesk/internal/authn"
	"github.com/dropDatabas3/clientdesk/internal/cache"
	"github.com/dropDatabas3/clientdesk/internal/config"
	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/email"
	"github.com/dropDatabas3/clientdesk/internal/portal/credentials"
	"github.com/dropDatabas3/clientdesk/internal/portal/invites"
	"github.com/dropDatabas3/clientdesk/internal/security/secretbox"
)

type Container struct {
	Cfg   *config.Config
	Store repository.Store
	Box   secretbox.Provider
	Cache cache.Client

	Verifier *authn.Verifier
	Resolver *authn.Resolver
	Audit    *audit.Recorder
	Sender   email.Sender

	Credentials *credentials.Service
	Invites     *invites.Service
}

// New arma el grafo de servicios a partir de las piezas de infraestructura.
// El box llega como Provider: una clave ausente recién se nota en el primer
// camino que cifra o descifra.
func New(cfg *config.Config, store repository.Store, box secretbox.Provider, c cache.Client, sender email.Sender) *Container {
	recorder := audit.NewRecorder(store)
	return &Container{
		Cfg:         cfg,
		Store:       store,
		Box:         box,
		Cache:       c,
		Verifier:    authn.NewVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer),
		Resolver:    authn.NewResolver(store, c, cfg.PrincipalCacheTTLDuration()),
		Audit:       recorder,
		Sender:      sender,
		Credentials: credentials.NewService(store, box, recorder),
		Invites:     invites.NewService(store, sender, cfg.Email.BaseURL),
	}
}
