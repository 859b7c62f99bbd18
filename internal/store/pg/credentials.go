package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

func (s *Store) CreateCredential(ctx context.Context, c *repository.Credential) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	const query = `
		INSERT INTO credential (id, label, username, encrypted_secret, iv, auth_tag, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := s.pool.Exec(ctx, query,
		c.ID, c.Label, c.Username,
		c.Envelope.Ciphertext, c.Envelope.Nonce, c.Envelope.AuthTag,
		now,
	)
	return mapPgErr(err)
}

func (s *Store) GetCredential(ctx context.Context, id string) (*repository.Credential, error) {
	const query = `
		SELECT id, label, username, encrypted_secret, iv, auth_tag, created_at, updated_at
		FROM credential WHERE id = $1
	`
	var c repository.Credential
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Label, &c.Username,
		&c.Envelope.Ciphertext, &c.Envelope.Nonce, &c.Envelope.AuthTag,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCredentials devuelve metadata solamente; el sobre cifrado no sale
// del store en listados.
func (s *Store) ListCredentials(ctx context.Context) ([]repository.CredentialSummary, error) {
	const query = `
		SELECT id, label, username, created_at
		FROM credential ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.CredentialSummary
	for rows.Next() {
		var c repository.CredentialSummary
		if err := rows.Scan(&c.ID, &c.Label, &c.Username, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LinkedClientIDs resuelve el conjunto de tenants con derecho sobre la
// credencial: union de los client_id de domain y hosting que la referencian.
func (s *Store) LinkedClientIDs(ctx context.Context, credentialID string) ([]string, error) {
	const query = `
		SELECT client_id FROM domain WHERE credential_id = $1
		UNION
		SELECT client_id FROM hosting WHERE credential_id = $1
	`
	rows, err := s.pool.Query(ctx, query, credentialID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
