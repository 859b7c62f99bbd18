package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

func (s *Store) CreateTicket(ctx context.Context, t *repository.SupportTicket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = repository.TicketOpen
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now

	const query = `
		INSERT INTO support_ticket (id, client_id, user_id, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`
	_, err := s.pool.Exec(ctx, query, t.ID, t.ClientID, t.UserID, t.Subject, t.Message, t.Status, now)
	return mapPgErr(err)
}

func (s *Store) GetTicket(ctx context.Context, id string) (*repository.SupportTicket, error) {
	const query = `
		SELECT id, client_id, user_id, subject, message, status, created_at, updated_at
		FROM support_ticket WHERE id = $1
	`
	var t repository.SupportTicket
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ClientID, &t.UserID, &t.Subject, &t.Message, &t.Status,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTickets(ctx context.Context, clientID *string) ([]repository.SupportTicket, error) {
	const query = `
		SELECT id, client_id, user_id, subject, message, status, created_at, updated_at
		FROM support_ticket
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.SupportTicket
	for rows.Next() {
		var t repository.SupportTicket
		if err := rows.Scan(
			&t.ID, &t.ClientID, &t.UserID, &t.Subject, &t.Message, &t.Status,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SetTicketStatus(ctx context.Context, id, status string) error {
	if status != repository.TicketOpen && status != repository.TicketClosed {
		return repository.ErrInvalidInput
	}
	const query = `
		UPDATE support_ticket SET status = $2, updated_at = now() WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query, id, status)
	if err != nil {
		return mapPgErr(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
