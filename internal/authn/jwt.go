// Package authn resuelve el principal autenticado a partir del token de
// sesión emitido por el proveedor de identidad.
package authn

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("authn: invalid token")
	ErrTokenExpired = errors.New("authn: token expired")
	ErrNoSubject    = errors.New("authn: token without subject")
)

// Verifier valida JWT HS256 y extrae el subject canónico.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(secret []byte, issuer string) *Verifier {
	return &Verifier{secret: secret, issuer: issuer}
}

// VerifySubject parsea y valida el token, devolviendo la claim `sub`.
// El subject es el identificador canónico del usuario en el proveedor de
// identidad; la resolución a usuario local ocurre después.
func (v *Verifier) VerifySubject(raw string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	sub, err := tok.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", ErrNoSubject
	}
	return sub, nil
}
