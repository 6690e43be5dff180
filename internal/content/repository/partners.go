package repository

import (
	"context"
	"errors"
	"fmt"

	"vitrine_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const partnerColumns = `id, name, website_url, description, logo_key, sort_order, created_at, updated_at`

func (r *Repo) ListPartners(ctx context.Context) ([]Partner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+partnerColumns+` FROM partners ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	defer rows.Close()

	items := make([]Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *Repo) GetPartner(ctx context.Context, id uuid.UUID) (Partner, error) {
	return singlePartner(r.pool.QueryRow(ctx, `SELECT `+partnerColumns+` FROM partners WHERE id = $1`, id), "get")
}

func (r *Repo) CreatePartner(ctx context.Context, p Partner) (Partner, error) {
	return singlePartner(r.pool.QueryRow(ctx, `
		INSERT INTO partners (id, name, website_url, description, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+partnerColumns,
		p.ID, p.Name, p.WebsiteURL, p.Description, p.SortOrder), "create")
}

func (r *Repo) UpdatePartner(ctx context.Context, p Partner) (Partner, error) {
	return singlePartner(r.pool.QueryRow(ctx, `
		UPDATE partners SET name = $2, website_url = $3, description = $4, sort_order = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+partnerColumns,
		p.ID, p.Name, p.WebsiteURL, p.Description, p.SortOrder), "update")
}

func (r *Repo) SetPartnerLogo(ctx context.Context, id uuid.UUID, key *string) (*string, error) {
	var previous *string
	err := r.pool.QueryRow(ctx, `
		UPDATE partners p SET logo_key = $2, updated_at = now()
		FROM (SELECT logo_key FROM partners WHERE id = $1 FOR UPDATE) old
		WHERE p.id = $1
		RETURNING old.logo_key`, id, key).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(partnerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to set partner logo: %w", err)
	}
	return previous, nil
}

func (r *Repo) DeletePartner(ctx context.Context, id uuid.UUID) (Partner, error) {
	return singlePartner(r.pool.QueryRow(ctx, `DELETE FROM partners WHERE id = $1 RETURNING `+partnerColumns, id), "delete")
}

func singlePartner(row pgx.Row, op string) (Partner, error) {
	p, err := scanPartner(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Partner{}, apperr.NotFound(partnerNotFoundMsg)
		}
		return Partner{}, fmt.Errorf("failed to %s partner: %w", op, err)
	}
	return p, nil
}

func scanPartner(row pgx.Row) (Partner, error) {
	var p Partner
	err := row.Scan(&p.ID, &p.Name, &p.WebsiteURL, &p.Description, &p.LogoKey, &p.SortOrder, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
