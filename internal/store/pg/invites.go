package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

func (s *Store) CreateInvite(ctx context.Context, i *repository.ClientInvite) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	i.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO client_invite (id, email, client_id, token_hash, expires_at, used_at, created_at)
		VALUES ($1, lower($2), $3, $4, $5, NULL, $6)
	`
	_, err := s.pool.Exec(ctx, query, i.ID, i.Email, i.ClientID, i.TokenHash, i.ExpiresAt, i.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) GetInviteByTokenHash(ctx context.Context, tokenHash string) (*repository.ClientInvite, error) {
	const query = `
		SELECT id, email, client_id, token_hash, expires_at, used_at, created_at
		FROM client_invite WHERE token_hash = $1
	`
	var i repository.ClientInvite
	err := s.pool.QueryRow(ctx, query, tokenHash).Scan(
		&i.ID, &i.Email, &i.ClientID, &i.TokenHash, &i.ExpiresAt, &i.UsedAt, &i.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (s *Store) MarkInviteUsed(ctx context.Context, id string, usedAt time.Time) error {
	const query = `
		UPDATE client_invite SET used_at = $2 WHERE id = $1 AND used_at IS NULL
	`
	tag, err := s.pool.Exec(ctx, query, id, usedAt)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) ListInvites(ctx context.Context, clientID *string) ([]repository.ClientInvite, error) {
	const query = `
		SELECT id, email, client_id, token_hash, expires_at, used_at, created_at
		FROM client_invite
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.ClientInvite
	for rows.Next() {
		var i repository.ClientInvite
		if err := rows.Scan(
			&i.ID, &i.Email, &i.ClientID, &i.TokenHash, &i.ExpiresAt, &i.UsedAt, &i.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
