package repository

import (
	"context"
	"errors"
	"fmt"

	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const caseColumns = `id, title, slug, client_name, summary, body, image_key, is_published, sort_order, created_at, updated_at`

func (r *Repo) ListCases(ctx context.Context, publishedOnly bool) ([]CustomerCase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+caseColumns+` FROM customer_cases
		WHERE NOT $1 OR is_published
		ORDER BY sort_order, created_at DESC`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer cases: %w", err)
	}
	defer rows.Close()

	items := make([]CustomerCase, 0)
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer case: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *Repo) GetCase(ctx context.Context, id uuid.UUID) (CustomerCase, error) {
	return singleCase(r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM customer_cases WHERE id = $1`, id), "get")
}

func (r *Repo) GetCaseBySlug(ctx context.Context, slug string) (CustomerCase, error) {
	return singleCase(r.pool.QueryRow(ctx, `SELECT `+caseColumns+` FROM customer_cases WHERE slug = $1`, slug), "get")
}

func (r *Repo) CreateCase(ctx context.Context, c CustomerCase) (CustomerCase, error) {
	return singleCase(r.pool.QueryRow(ctx, `
		INSERT INTO customer_cases (id, title, slug, client_name, summary, body, is_published, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+caseColumns,
		c.ID, c.Title, c.Slug, c.ClientName, c.Summary, c.Body, c.IsPublished, c.SortOrder), "create")
}

func (r *Repo) UpdateCase(ctx context.Context, c CustomerCase) (CustomerCase, error) {
	return singleCase(r.pool.QueryRow(ctx, `
		UPDATE customer_cases SET
			title = $2, slug = $3, client_name = $4, summary = $5, body = $6,
			is_published = $7, sort_order = $8, updated_at = now()
		WHERE id = $1
		RETURNING `+caseColumns,
		c.ID, c.Title, c.Slug, c.ClientName, c.Summary, c.Body, c.IsPublished, c.SortOrder), "update")
}

func (r *Repo) SetCaseImage(ctx context.Context, id uuid.UUID, key *string) (*string, error) {
	var previous *string
	err := r.pool.QueryRow(ctx, `
		UPDATE customer_cases c SET image_key = $2, updated_at = now()
		FROM (SELECT image_key FROM customer_cases WHERE id = $1 FOR UPDATE) old
		WHERE c.id = $1
		RETURNING old.image_key`, id, key).Scan(&previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(caseNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to set customer case image: %w", err)
	}
	return previous, nil
}

func (r *Repo) DeleteCase(ctx context.Context, id uuid.UUID) (CustomerCase, error) {
	return singleCase(r.pool.QueryRow(ctx, `DELETE FROM customer_cases WHERE id = $1 RETURNING `+caseColumns, id), "delete")
}

func singleCase(row pgx.Row, op string) (CustomerCase, error) {
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CustomerCase{}, apperr.NotFound(caseNotFoundMsg)
		}
		if db.IsUniqueViolation(err, caseSlugConstraint) {
			return CustomerCase{}, apperr.Field("slug", "is already used by another case")
		}
		return CustomerCase{}, fmt.Errorf("failed to %s customer case: %w", op, err)
	}
	return c, nil
}

func scanCase(row pgx.Row) (CustomerCase, error) {
	var c CustomerCase
	err := row.Scan(&c.ID, &c.Title, &c.Slug, &c.ClientName, &c.Summary, &c.Body, &c.ImageKey, &c.IsPublished, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
