// Package authz define el principal autenticado y el predicado de acceso
// por tenant que se reutiliza en todas las lecturas tenant-scoped.
package authz

import (
	"errors"
	"strings"
)

// Role es el rol de un usuario del portal.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleClient Role = "CLIENT"
)

// ParseRole normaliza y valida un rol.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleClient:
		return RoleClient, nil
	}
	return "", ErrInvalidRole
}

var (
	ErrInvalidRole = errors.New("authz: rol inválido")

	// ErrRoleClientMismatch: ADMIN implica clientId nulo; CLIENT implica
	// clientId no nulo. Se rechaza en la construcción, no en cada lectura.
	ErrRoleClientMismatch = errors.New("authz: combinación rol/cliente inválida")
)

// Principal es el actor autenticado de un request.
// ClientID es nil para ADMIN y obligatorio para CLIENT.
type Principal struct {
	ID       string
	Email    string
	Role     Role
	ClientID *string
}

// NewPrincipal construye un Principal validando el invariante rol/tenant.
// Es la única vía de construcción soportada: ningún call site debería tener
// que re-chequear la coherencia.
func NewPrincipal(id, email string, role Role, clientID *string) (Principal, error) {
	if role != RoleAdmin && role != RoleClient {
		return Principal{}, ErrInvalidRole
	}
	if role == RoleAdmin && clientID != nil {
		return Principal{}, ErrRoleClientMismatch
	}
	if role == RoleClient && (clientID == nil || strings.TrimSpace(*clientID) == "") {
		return Principal{}, ErrRoleClientMismatch
	}
	return Principal{ID: id, Email: email, Role: role, ClientID: clientID}, nil
}

// IsAdmin es azúcar para chequeos de rol.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanAccessClient decide si el principal puede acceder a un recurso del
// tenant dado. ADMIN siempre puede; CLIENT sólo a su propio tenant, y nunca
// a un recurso sin tenant (clientID nil).
func CanAccessClient(p Principal, clientID *string) bool {
	if p.Role == RoleAdmin {
		return true
	}
	if clientID == nil {
		return false
	}
	return p.ClientID != nil && *p.ClientID == *clientID
}

// CanAccessAny es la variante por conjunto: permite si el principal es ADMIN
// o si su tenant pertenece a clientIDs. Es chequeo de pertenencia, no de
// igualdad: una credencial puede estar autorizada para varios tenants a la vez.
func CanAccessAny(p Principal, clientIDs []string) bool {
	if p.Role == RoleAdmin {
		return true
	}
	if p.ClientID == nil {
		return false
	}
	for _, id := range clientIDs {
		if id == *p.ClientID {
			return true
		}
	}
	return false
}

// ListScope devuelve el filtro de tenant para queries de listado:
// nil para ADMIN (sin filtro), el propio ClientID para CLIENT.
// El filtro se empuja a la query, nunca se aplica como post-filtro.
func ListScope(p Principal) *string {
	if p.Role == RoleAdmin {
		return nil
	}
	return p.ClientID
}
