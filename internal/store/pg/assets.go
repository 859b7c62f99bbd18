package pg

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dropDatabas3/clientdesk/internal/domain/repository"
)

// Domains, hosting y documentos: los activos tenant-scoped del portal.

func (s *Store) CreateDomain(ctx context.Context, d *repository.Domain) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now

	const query = `
		INSERT INTO domain (id, client_id, domain_name, registrar, expiry_date, auto_renew,
			nameservers, login_url, credential_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err := s.pool.Exec(ctx, query,
		d.ID, d.ClientID, d.DomainName, d.Registrar, d.ExpiryDate, d.AutoRenew,
		d.Nameservers, d.LoginURL, d.CredentialID, now,
	)
	return mapPgErr(err)
}

func (s *Store) GetDomain(ctx context.Context, id string) (*repository.Domain, error) {
	const query = `
		SELECT id, client_id, domain_name, registrar, expiry_date, auto_renew,
			nameservers, login_url, credential_id, created_at, updated_at
		FROM domain WHERE id = $1
	`
	var d repository.Domain
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.ClientID, &d.DomainName, &d.Registrar, &d.ExpiryDate, &d.AutoRenew,
		&d.Nameservers, &d.LoginURL, &d.CredentialID, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) ListDomains(ctx context.Context, clientID *string) ([]repository.Domain, error) {
	const query = `
		SELECT id, client_id, domain_name, registrar, expiry_date, auto_renew,
			nameservers, login_url, credential_id, created_at, updated_at
		FROM domain
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Domain
	for rows.Next() {
		var d repository.Domain
		if err := rows.Scan(
			&d.ID, &d.ClientID, &d.DomainName, &d.Registrar, &d.ExpiryDate, &d.AutoRenew,
			&d.Nameservers, &d.LoginURL, &d.CredentialID, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) CreateHosting(ctx context.Context, h *repository.Hosting) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now

	const query = `
		INSERT INTO hosting (id, client_id, provider, plan, renewal_date, region,
			control_panel_url, credential_id, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
	`
	_, err := s.pool.Exec(ctx, query,
		h.ID, h.ClientID, h.Provider, h.Plan, h.RenewalDate, h.Region,
		h.ControlPanelURL, h.CredentialID, h.Notes, now,
	)
	return mapPgErr(err)
}

func (s *Store) GetHosting(ctx context.Context, id string) (*repository.Hosting, error) {
	const query = `
		SELECT id, client_id, provider, plan, renewal_date, region,
			control_panel_url, credential_id, notes, created_at, updated_at
		FROM hosting WHERE id = $1
	`
	var h repository.Hosting
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&h.ID, &h.ClientID, &h.Provider, &h.Plan, &h.RenewalDate, &h.Region,
		&h.ControlPanelURL, &h.CredentialID, &h.Notes, &h.CreatedAt, &h.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *Store) ListHosting(ctx context.Context, clientID *string) ([]repository.Hosting, error) {
	const query = `
		SELECT id, client_id, provider, plan, renewal_date, region,
			control_panel_url, credential_id, notes, created_at, updated_at
		FROM hosting
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Hosting
	for rows.Next() {
		var h repository.Hosting
		if err := rows.Scan(
			&h.ID, &h.ClientID, &h.Provider, &h.Plan, &h.RenewalDate, &h.Region,
			&h.ControlPanelURL, &h.CredentialID, &h.Notes, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) CreateDocument(ctx context.Context, d *repository.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now().UTC()

	const query = `
		INSERT INTO document (id, client_id, title, storage_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.pool.Exec(ctx, query, d.ID, d.ClientID, d.Title, d.StorageKey, d.CreatedAt)
	return mapPgErr(err)
}

func (s *Store) ListDocuments(ctx context.Context, clientID *string) ([]repository.Document, error) {
	const query = `
		SELECT id, client_id, title, storage_key, created_at
		FROM document
		WHERE ($1::uuid IS NULL OR client_id = $1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []repository.Document
	for rows.Next() {
		var d repository.Document
		if err := rows.Scan(&d.ID, &d.ClientID, &d.Title, &d.StorageKey, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
