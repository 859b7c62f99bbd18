package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

func (s *Store) CreateClient(ctx context.Context, c *repository.Client) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	const query = `
		INSERT INTO client (id, name, company, email_primary, phone, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := s.pool.Exec(ctx, query, c.ID, c.Name, c.Company, c.EmailPrimary, c.Phone, c.Notes, now)
	return mapPgErr(err)
}

func (s *Store) GetClient(ctx context.Context, id string) (*repository.Client, error) {
	const query = `
		SELECT id, name, company, email_primary, phone, notes, created_at, updated_at
		FROM client WHERE id = $1
	`
	var c repository.Client
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Company, &c.EmailPrimary, &c.Phone, &c.Notes,
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

func (s *Store) ListClients(ctx context.Context) ([]repository.Client, error) {
	const query = `
		SELECT id, name, company, email_primary, phone, notes, created_at, updated_at
		FROM client ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Client
	for rows.Next() {
		var c repository.Client
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Company, &c.EmailPrimary, &c.Phone, &c.Notes,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
