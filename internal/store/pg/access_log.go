package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

// El log de acceso a secretos es append-only: este adapter expone insert y
// lecturas, nunca update ni delete. La tabla lleva además un trigger que
// rechaza ambos (ver migraciones).

func (s *Store) AppendSecretAccess(ctx context.Context, e *repository.SecretAccessLog) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Action == "" {
		e.Action = repository.ActionReveal
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO secret_access_log (id, user_id, credential_id, action, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, e.ID, e.UserID, e.CredentialID, e.Action, e.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) ListSecretAccess(ctx context.Context, limit int) ([]repository.SecretAccessLog, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id, user_id, credential_id, action, created_at
		FROM secret_access_log ORDER BY created_at DESC LIMIT $1
	`
	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.SecretAccessLog
	for rows.Next() {
		var e repository.SecretAccessLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.CredentialID, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) CountSecretAccess(ctx context.Context, credentialID string) (int64, error) {
	const query = `SELECT count(*) FROM secret_access_log WHERE credential_id = $1`
	var n int64
	if err := s.pool.QueryRow(ctx, query, credentialID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
