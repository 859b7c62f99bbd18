package authn

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("clave-de-test-bien-larga")

func mintToken(t *testing.T, secret []byte, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(method, claims)
	raw, err := tok.SignedString(secret)
	require.NoError(t, err)
	return raw
}

func TestVerifySubject(t *testing.T) {
	t.Parallel()
	v := NewVerifier(testSecret, "clientdesk")

	t.Run("token válido devuelve el sub", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "idp|u1",
			"iss": "clientdesk",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		sub, err := v.VerifySubject(raw)
		require.NoError(t, err)
		require.Equal(t, "idp|u1", sub)
	})

	t.Run("firma con otro secreto", func(t *testing.T) {
		raw := mintToken(t, []byte("otro-secreto-distinto!!"), jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "idp|u1",
			"iss": "clientdesk",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := v.VerifySubject(raw)
		require.True(t, errors.Is(err, ErrTokenInvalid))
	})

	t.Run("token vencido", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "idp|u1",
			"iss": "clientdesk",
			"exp": time.Now().Add(-time.Hour).Unix(),
		})
		_, err := v.VerifySubject(raw)
		require.True(t, errors.Is(err, ErrTokenExpired))
	})

	t.Run("issuer equivocado", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "idp|u1",
			"iss": "otro-emisor",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := v.VerifySubject(raw)
		require.True(t, errors.Is(err, ErrTokenInvalid))
	})

	t.Run("sin subject", func(t *testing.T) {
		raw := mintToken(t, testSecret, jwt.SigningMethodHS256, jwt.MapClaims{
			"iss": "clientdesk",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		_, err := v.VerifySubject(raw)
		require.True(t, errors.Is(err, ErrNoSubject))
	})

	t.Run("basura no parseable", func(t *testing.T) {
		_, err := v.VerifySubject("no.es.jwt")
		require.True(t, errors.Is(err, ErrTokenInvalid))
	})
}
