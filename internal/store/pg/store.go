// Package pg implementa repository.Store sobre PostgreSQL (pgxpool).
package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
)

type Store struct{ pool *pgxpool.Pool }

var _ repository.Store = (*Store)(nil)

// Tuning mapea la config de pool del YAML a pgxpool.
type Tuning struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

func New(ctx context.Context, dsn string, tun Tuning) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	if tun.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(tun.MaxOpenConns)
	}
	// MaxIdleConns se mapea a MinConns en pgxpool
	if tun.MaxIdleConns > 0 {
		pcfg.MinConns = int32(tun.MaxIdleConns)
	}
	if tun.ConnMaxLifetime != "" {
		if d, err := time.ParseDuration(tun.ConnMaxLifetime); err == nil {
			pcfg.MaxConnLifetime = d
			pcfg.MaxConnIdleTime = d
		}
	}
	if pcfg.MaxConns == 0 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	// Arranque no bloqueante: si la DB está caída avisamos y seguimos;
	// readyz reporta el estado real.
	if err := pool.Ping(ctx); err != nil {
		logger.L().Warn("pg_pool_startup_ping_failed", logger.Err(err))
	} else {
		logger.L().Info("pg_pool_ready", logger.Any("max_conns", pcfg.MaxConns))
	}

	return &Store{pool: pool}, nil
}

// Pool expone el pool interno (migraciones, metrics).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// mapPgErr traduce códigos SQLSTATE a los errores del contrato.
func mapPgErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return repository.ErrConflict
		case "23503", "23514": // foreign_key_violation, check_violation
			return repository.ErrInvalidInput
		}
	}
	return err
}
