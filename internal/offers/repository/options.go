package repository

import (
	"context"
	"fmt"

	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const optionColumns = `
	id, slug, title, short_description, description, pricing_type,
	price_cents, price_from_cents, unit_label, unit_price_cents,
	duration_days, billing_cadence, sort_order, created_at, updated_at`

// ListOptions returns the option catalog in display order.
func (r *Repo) ListOptions(ctx context.Context) ([]Option, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+optionColumns+` FROM offer_options ORDER BY sort_order ASC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list offer options: %w", err)
	}
	return scanOptions(rows)
}

// GetOption returns one option.
func (r *Repo) GetOption(ctx context.Context, id uuid.UUID) (Option, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+optionColumns+` FROM offer_options WHERE id = $1`, id)
	if err != nil {
		return Option{}, fmt.Errorf("get offer option: %w", err)
	}
	opts, err := scanOptions(rows)
	if err != nil {
		return Option{}, err
	}
	if len(opts) == 0 {
		return Option{}, apperr.NotFound(optionNotFoundMsg)
	}
	return opts[0], nil
}

// CreateOption inserts an option and returns the stored row.
func (r *Repo) CreateOption(ctx context.Context, opt Option) (Option, error) {
	rows, err := r.pool.Query(ctx, `
		INSERT INTO offer_options (
			id, slug, title, short_description, description, pricing_type,
			price_cents, price_from_cents, unit_label, unit_price_cents,
			duration_days, billing_cadence, sort_order
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+optionColumns,
		opt.ID, opt.Slug, opt.Title, opt.ShortDescription, opt.Description, opt.PricingType,
		opt.PriceCents, opt.PriceFromCents, opt.UnitLabel, opt.UnitPriceCents,
		opt.DurationDays, opt.BillingCadence, opt.SortOrder,
	)
	if err != nil {
		return Option{}, fmt.Errorf("create offer option: %w", err)
	}
	return singleOption(rows)
}

// UpdateOption overwrites an option's fields.
func (r *Repo) UpdateOption(ctx context.Context, opt Option) (Option, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE offer_options SET
			slug = $2, title = $3, short_description = $4, description = $5, pricing_type = $6,
			price_cents = $7, price_from_cents = $8, unit_label = $9, unit_price_cents = $10,
			duration_days = $11, billing_cadence = $12, sort_order = $13, updated_at = now()
		WHERE id = $1
		RETURNING `+optionColumns,
		opt.ID, opt.Slug, opt.Title, opt.ShortDescription, opt.Description, opt.PricingType,
		opt.PriceCents, opt.PriceFromCents, opt.UnitLabel, opt.UnitPriceCents,
		opt.DurationDays, opt.BillingCadence, opt.SortOrder,
	)
	if err != nil {
		return Option{}, fmt.Errorf("update offer option: %w", err)
	}
	return singleOption(rows)
}

// DeleteOption removes an option. Offer links and quote items referencing it cascade.
func (r *Repo) DeleteOption(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offer_options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(optionNotFoundMsg)
	}
	return nil
}

// singleOption reads the RETURNING row of a write. The unique violation only
// surfaces while iterating, so it is mapped here.
func singleOption(rows pgx.Rows) (Option, error) {
	opts, err := scanOptions(rows)
	if db.IsUniqueViolation(err, optionSlugConstraint) {
		return Option{}, apperr.Field("slug", "is already used by another option")
	}
	if err != nil {
		return Option{}, err
	}
	if len(opts) == 0 {
		return Option{}, apperr.NotFound(optionNotFoundMsg)
	}
	return opts[0], nil
}

func scanOptions(rows pgx.Rows) ([]Option, error) {
	defer rows.Close()

	opts := make([]Option, 0)
	for rows.Next() {
		var o Option
		if err := rows.Scan(
			&o.ID, &o.Slug, &o.Title, &o.ShortDescription, &o.Description, &o.PricingType,
			&o.PriceCents, &o.PriceFromCents, &o.UnitLabel, &o.UnitPriceCents,
			&o.DurationDays, &o.BillingCadence, &o.SortOrder, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan offer option: %w", err)
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offer options: %w", err)
	}
	return opts, nil
}
