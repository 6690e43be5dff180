package repository

import (
	"context"
	"errors"
	"fmt"

	"vitrine_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const faqColumns = `id, question, answer, category, is_published, sort_order, created_at, updated_at`

func (r *Repo) ListFAQ(ctx context.Context, publishedOnly bool) ([]FAQEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+faqColumns+` FROM faq_entries
		WHERE NOT $1 OR is_published
		ORDER BY category, sort_order, created_at`, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}
	defer rows.Close()

	items := make([]FAQEntry, 0)
	for rows.Next() {
		e, err := scanFAQ(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faq entry: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *Repo) GetFAQ(ctx context.Context, id uuid.UUID) (FAQEntry, error) {
	return singleFAQ(r.pool.QueryRow(ctx, `SELECT `+faqColumns+` FROM faq_entries WHERE id = $1`, id), "get")
}

func (r *Repo) CreateFAQ(ctx context.Context, e FAQEntry) (FAQEntry, error) {
	return singleFAQ(r.pool.QueryRow(ctx, `
		INSERT INTO faq_entries (id, question, answer, category, is_published, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+faqColumns,
		e.ID, e.Question, e.Answer, e.Category, e.IsPublished, e.SortOrder), "create")
}

func (r *Repo) UpdateFAQ(ctx context.Context, e FAQEntry) (FAQEntry, error) {
	return singleFAQ(r.pool.QueryRow(ctx, `
		UPDATE faq_entries SET question = $2, answer = $3, category = $4, is_published = $5, sort_order = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+faqColumns,
		e.ID, e.Question, e.Answer, e.Category, e.IsPublished, e.SortOrder), "update")
}

func (r *Repo) DeleteFAQ(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM faq_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete faq entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(faqNotFoundMsg)
	}
	return nil
}

func singleFAQ(row pgx.Row, op string) (FAQEntry, error) {
	e, err := scanFAQ(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FAQEntry{}, apperr.NotFound(faqNotFoundMsg)
		}
		return FAQEntry{}, fmt.Errorf("failed to %s faq entry: %w", op, err)
	}
	return e, nil
}

func scanFAQ(row pgx.Row) (FAQEntry, error) {
	var e FAQEntry
	err := row.Scan(&e.ID, &e.Question, &e.Answer, &e.Category, &e.IsPublished, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}
