package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar HTTP.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Campos estándar de negocio.
// ClientID refiere al tenant (organización cliente), no a un cliente OAuth.

func ClientID(v string) zap.Field     { return zap.String("client_id", v) }
func UserID(v string) zap.Field       { return zap.String("user_id", v) }
func CredentialID(v string) zap.Field { return zap.String("credential_id", v) }
func Role(v string) zap.Field         { return zap.String("role", v) }
func Action(v string) zap.Field       { return zap.String("action", v) }

// Campos estándar de sistema.

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
func Count(v int) zap.Field        { return zap.Int("count", v) }
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
func String(key, v string) zap.Field { return zap.String(key, v) }
