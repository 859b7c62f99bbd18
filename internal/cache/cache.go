// Package cache provee un cache chico multi-backend.
//
// Soporta:
//   - memory (in-process, desarrollo y testing)
//   - redis (distribuido, producción)
//
// Se usa para cachear la resolución de principals en el middleware de auth.
package cache

import (
	"context"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. ok=false si no existe o expiró.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set guarda un valor con TTL. Si ttl es 0 aplica el default del backend.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete elimina una key (idempotente).
	Delete(ctx context.Context, key string) error

	// Ping verifica la conexión.
	Ping(ctx context.Context) error

	// Close cierra la conexión.
	Close() error
}

// Config para crear un cliente de cache.
type Config struct {
	Driver     string // "memory" | "redis"
	Host       string
	Port       int
	Password   string
	DB         int
	Prefix     string // prefijo para todas las keys
	DefaultTTL time.Duration
}

// New crea un cliente según el driver configurado.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	case "memory", "":
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	default:
		return NewMemory(cfg.Prefix, cfg.DefaultTTL), nil
	}
}
