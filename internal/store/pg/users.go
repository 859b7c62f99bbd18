package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

const userCols = `id, subject, email, role, client_id, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.AppUser, error) {
	var u repository.AppUser
	err := row.Scan(
		&u.ID, &u.Subject, &u.Email, &u.Role, &u.ClientID, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *repository.AppUser) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now

	const query = `
		INSERT INTO app_user (id, subject, email, role, client_id, password_hash, created_at, updated_at)
		VALUES ($1, $2, lower($3), $4, $5, $6, $7, $7)
	`
	_, err := s.pool.Exec(ctx, query, u.ID, u.Subject, u.Email, u.Role, u.ClientID, u.PasswordHash, now)
	return mapPgErr(err)
}

func (s *Store) GetUser(ctx context.Context, id string) (*repository.AppUser, error) {
	const query = `SELECT ` + userCols + ` FROM app_user WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *Store) GetUserBySubject(ctx context.Context, subject string) (*repository.AppUser, error) {
	const query = `SELECT ` + userCols + ` FROM app_user WHERE subject = $1`
	return scanUser(s.pool.QueryRow(ctx, query, subject))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*repository.AppUser, error) {
	const query = `SELECT ` + userCols + ` FROM app_user WHERE email = lower($1)`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *Store) ListUsers(ctx context.Context, clientID *string) ([]repository.AppUser, error) {
	const query = `
		SELECT ` + userCols + ` FROM app_user
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.AppUser
	for rows.Next() {
		var u repository.AppUser
		if err := rows.Scan(
			&u.ID, &u.Subject, &u.Email, &u.Role, &u.ClientID, &u.PasswordHash,
			&u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string, clientID *string) error {
	const query = `
		UPDATE app_user SET role = $2, client_id = $3, updated_at = now()
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, role, clientID)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
