package repository

import (
	"context"
	"errors"
	"fmt"

	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

const (
	offerNotFoundMsg  = "service offer not found"
	optionNotFoundMsg = "offer option not found"
	slugTakenMsg      = "is already used by another offer"

	offerSlugConstraint  = "service_offers_slug_key"
	optionSlugConstraint = "offer_options_slug_key"

	// featuredLockKey serializes writes that touch the featured flag.
	featuredLockKey int64 = 0x0ffe7fea
)

const (
	lockFeaturedQuery    = `SELECT pg_advisory_xact_lock($1)`
	unfeatureOthersQuery = `
		UPDATE service_offers SET is_featured = false, updated_at = now()
		WHERE is_featured = true AND id <> $1`
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new offer catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

const offerColumns = `
	id, title, slug, subtitle, short_description, description,
	price_label, duration_label, engagement_label, duration_days,
	cta_label, cta_link, is_featured, sort_order, created_at, updated_at`

// WithTx runs fn inside one transaction.
func (r *Repo) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListOffers returns every offer with relations, ordered by sort order.
func (r *Repo) ListOffers(ctx context.Context) ([]Offer, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+offerColumns+` FROM service_offers ORDER BY sort_order ASC, title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list service offers: %w", err)
	}
	offers, err := scanOffers(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelationsConcurrently(ctx, offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// GetOfferByID returns one offer with relations.
func (r *Repo) GetOfferByID(ctx context.Context, id uuid.UUID) (Offer, error) {
	return getOffer(ctx, r.pool, `SELECT `+offerColumns+` FROM service_offers WHERE id = $1`, id)
}

// GetOfferBySlug returns one offer with relations.
func (r *Repo) GetOfferBySlug(ctx context.Context, slug string) (Offer, error) {
	return getOffer(ctx, r.pool, `SELECT `+offerColumns+` FROM service_offers WHERE slug = $1`, slug)
}

func getOffer(ctx context.Context, q querier, query string, arg any) (Offer, error) {
	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return Offer{}, fmt.Errorf("get service offer: %w", err)
	}
	offers, err := scanOffers(rows)
	if err != nil {
		return Offer{}, err
	}
	if len(offers) == 0 {
		return Offer{}, apperr.NotFound(offerNotFoundMsg)
	}
	if err := loadRelations(ctx, q, offers); err != nil {
		return Offer{}, err
	}
	return offers[0], nil
}

func scanOffers(rows pgx.Rows) ([]Offer, error) {
	defer rows.Close()

	offers := make([]Offer, 0)
	for rows.Next() {
		var o Offer
		if err := rows.Scan(
			&o.ID, &o.Title, &o.Slug, &o.Subtitle, &o.ShortDescription, &o.Description,
			&o.PriceLabel, &o.DurationLabel, &o.EngagementLabel, &o.DurationDays,
			&o.CTALabel, &o.CTALink, &o.IsFeatured, &o.SortOrder, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan service offer: %w", err)
		}
		o.Features = []Feature{}
		o.Steps = []Step{}
		o.UseCases = []UseCase{}
		o.OptionIDs = []uuid.UUID{}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service offers: %w", err)
	}
	return offers, nil
}

// relationSet holds the owned rows of several offers keyed by offer id.
type relationSet struct {
	features map[uuid.UUID][]Feature
	steps    map[uuid.UUID][]Step
	useCases map[uuid.UUID][]UseCase
	options  map[uuid.UUID][]uuid.UUID
}

func offerIDs(offers []Offer) []uuid.UUID {
	ids := make([]uuid.UUID, len(offers))
	for i, o := range offers {
		ids[i] = o.ID
	}
	return ids
}

func (s relationSet) apply(offers []Offer) {
	for i := range offers {
		id := offers[i].ID
		if v, ok := s.features[id]; ok {
			offers[i].Features = v
		}
		if v, ok := s.steps[id]; ok {
			offers[i].Steps = v
		}
		if v, ok := s.useCases[id]; ok {
			offers[i].UseCases = v
		}
		if v, ok := s.options[id]; ok {
			offers[i].OptionIDs = v
		}
	}
}

// loadRelations runs the child queries one after another; a pgx.Tx cannot run them in parallel.
func loadRelations(ctx context.Context, q querier, offers []Offer) error {
	if len(offers) == 0 {
		return nil
	}
	ids := offerIDs(offers)

	var (
		set relationSet
		err error
	)
	if set.features, err = loadFeatures(ctx, q, ids); err != nil {
		return err
	}
	if set.steps, err = loadSteps(ctx, q, ids); err != nil {
		return err
	}
	if set.useCases, err = loadUseCases(ctx, q, ids); err != nil {
		return err
	}
	if set.options, err = loadOptionLinks(ctx, q, ids); err != nil {
		return err
	}
	set.apply(offers)
	return nil
}

func (r *Repo) loadRelationsConcurrently(ctx context.Context, offers []Offer) error {
	if len(offers) == 0 {
		return nil
	}
	ids := offerIDs(offers)

	var set relationSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		set.features, err = loadFeatures(gctx, r.pool, ids)
		return err
	})
	g.Go(func() (err error) {
		set.steps, err = loadSteps(gctx, r.pool, ids)
		return err
	})
	g.Go(func() (err error) {
		set.useCases, err = loadUseCases(gctx, r.pool, ids)
		return err
	})
	g.Go(func() (err error) {
		set.options, err = loadOptionLinks(gctx, r.pool, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	set.apply(offers)
	return nil
}

func loadFeatures(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]Feature, error) {
	rows, err := q.Query(ctx, `
		SELECT offer_id, id, label, icon, sort_order
		FROM service_offer_features
		WHERE offer_id = ANY($1)
		ORDER BY sort_order ASC, position ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("load offer features: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]Feature)
	for rows.Next() {
		var offerID uuid.UUID
		var f Feature
		if err := rows.Scan(&offerID, &f.ID, &f.Label, &f.Icon, &f.SortOrder); err != nil {
			return nil, fmt.Errorf("scan offer feature: %w", err)
		}
		out[offerID] = append(out[offerID], f)
	}
	return out, rows.Err()
}

func loadSteps(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]Step, error) {
	rows, err := q.Query(ctx, `
		SELECT offer_id, id, title, description, sort_order
		FROM service_offer_steps
		WHERE offer_id = ANY($1)
		ORDER BY sort_order ASC, position ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("load offer steps: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]Step)
	for rows.Next() {
		var offerID uuid.UUID
		var s Step
		if err := rows.Scan(&offerID, &s.ID, &s.Title, &s.Description, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("scan offer step: %w", err)
		}
		out[offerID] = append(out[offerID], s)
	}
	return out, rows.Err()
}

func loadUseCases(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]UseCase, error) {
	rows, err := q.Query(ctx, `
		SELECT offer_id, id, title, description, sort_order
		FROM service_offer_use_cases
		WHERE offer_id = ANY($1)
		ORDER BY sort_order ASC, position ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("load offer use cases: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]UseCase)
	for rows.Next() {
		var offerID uuid.UUID
		var u UseCase
		if err := rows.Scan(&offerID, &u.ID, &u.Title, &u.Description, &u.SortOrder); err != nil {
			return nil, fmt.Errorf("scan offer use case: %w", err)
		}
		out[offerID] = append(out[offerID], u)
	}
	return out, rows.Err()
}

func loadOptionLinks(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	rows, err := q.Query(ctx, `
		SELECT l.offer_id, l.option_id
		FROM service_offer_included_options l
		JOIN offer_options o ON o.id = l.option_id
		WHERE l.offer_id = ANY($1)
		ORDER BY o.sort_order ASC, o.title ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("load offer option links: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var offerID, optionID uuid.UUID
		if err := rows.Scan(&offerID, &optionID); err != nil {
			return nil, fmt.Errorf("scan offer option link: %w", err)
		}
		out[offerID] = append(out[offerID], optionID)
	}
	return out, rows.Err()
}

// pgTx implements Tx over a pgx transaction.
type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) OfferExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found uuid.UUID
	err := t.tx.QueryRow(ctx, `SELECT id FROM service_offers WHERE id = $1 FOR UPDATE`, id).Scan(&found)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock service offer: %w", err)
	}
	return true, nil
}

func (t *pgTx) MissingOptionIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := t.tx.Query(ctx, `
		SELECT wanted.id
		FROM unnest($1::uuid[]) AS wanted(id)
		LEFT JOIN offer_options o ON o.id = wanted.id
		WHERE o.id IS NULL`, ids)
	if err != nil {
		return nil, fmt.Errorf("check offer options: %w", err)
	}
	defer rows.Close()

	var missing []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan missing option: %w", err)
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (t *pgTx) UnfeatureOthers(ctx context.Context, keepID uuid.UUID) error {
	if _, err := t.tx.Exec(ctx, lockFeaturedQuery, featuredLockKey); err != nil {
		return fmt.Errorf("lock featured offer: %w", err)
	}
	if _, err := t.tx.Exec(ctx, unfeatureOthersQuery, keepID); err != nil {
		return fmt.Errorf("unfeature offers: %w", err)
	}
	return nil
}

func (t *pgTx) UpsertOffer(ctx context.Context, o Offer) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO service_offers (
			id, title, slug, subtitle, short_description, description,
			price_label, duration_label, engagement_label, duration_days,
			cta_label, cta_link, is_featured, sort_order, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			subtitle = EXCLUDED.subtitle,
			short_description = EXCLUDED.short_description,
			description = EXCLUDED.description,
			price_label = EXCLUDED.price_label,
			duration_label = EXCLUDED.duration_label,
			engagement_label = EXCLUDED.engagement_label,
			duration_days = EXCLUDED.duration_days,
			cta_label = EXCLUDED.cta_label,
			cta_link = EXCLUDED.cta_link,
			is_featured = EXCLUDED.is_featured,
			sort_order = EXCLUDED.sort_order,
			updated_at = now()`,
		o.ID, o.Title, o.Slug, o.Subtitle, o.ShortDescription, o.Description,
		o.PriceLabel, o.DurationLabel, o.EngagementLabel, o.DurationDays,
		o.CTALabel, o.CTALink, o.IsFeatured, o.SortOrder,
	)
	if db.IsUniqueViolation(err, offerSlugConstraint) {
		return apperr.Field("slug", slugTakenMsg)
	}
	if err != nil {
		return fmt.Errorf("upsert service offer: %w", err)
	}
	return nil
}

func (t *pgTx) ReplaceOptionLinks(ctx context.Context, offerID uuid.UUID, optionIDs []uuid.UUID) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM service_offer_included_options WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("clear offer option links: %w", err)
	}
	for _, optionID := range optionIDs {
		_, err := t.tx.Exec(ctx, `INSERT INTO service_offer_included_options (offer_id, option_id) VALUES ($1, $2)`, offerID, optionID)
		if db.IsForeignKeyViolation(err, "") {
			return apperr.Field("offerOptionIds", "references an unknown option")
		}
		if err != nil {
			return fmt.Errorf("link offer option: %w", err)
		}
	}
	return nil
}

func (t *pgTx) ReplaceFeatures(ctx context.Context, offerID uuid.UUID, features []Feature) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM service_offer_features WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("clear offer features: %w", err)
	}
	for i, f := range features {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO service_offer_features (id, offer_id, label, icon, sort_order, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			f.ID, offerID, f.Label, f.Icon, f.SortOrder, i,
		); err != nil {
			return fmt.Errorf("insert offer feature: %w", err)
		}
	}
	return nil
}

func (t *pgTx) ReplaceSteps(ctx context.Context, offerID uuid.UUID, steps []Step) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM service_offer_steps WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("clear offer steps: %w", err)
	}
	for i, s := range steps {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO service_offer_steps (id, offer_id, title, description, sort_order, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, offerID, s.Title, s.Description, s.SortOrder, i,
		); err != nil {
			return fmt.Errorf("insert offer step: %w", err)
		}
	}
	return nil
}

func (t *pgTx) ReplaceUseCases(ctx context.Context, offerID uuid.UUID, useCases []UseCase) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM service_offer_use_cases WHERE offer_id = $1`, offerID); err != nil {
		return fmt.Errorf("clear offer use cases: %w", err)
	}
	for i, u := range useCases {
		if _, err := t.tx.Exec(ctx, `
			INSERT INTO service_offer_use_cases (id, offer_id, title, description, sort_order, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			u.ID, offerID, u.Title, u.Description, u.SortOrder, i,
		); err != nil {
			return fmt.Errorf("insert offer use case: %w", err)
		}
	}
	return nil
}

func (t *pgTx) DeleteOffer(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, stmt := range []string{
		`DELETE FROM service_offer_features WHERE offer_id = $1`,
		`DELETE FROM service_offer_steps WHERE offer_id = $1`,
		`DELETE FROM service_offer_use_cases WHERE offer_id = $1`,
		`DELETE FROM service_offer_included_options WHERE offer_id = $1`,
	} {
		if _, err := t.tx.Exec(ctx, stmt, id); err != nil {
			return false, fmt.Errorf("delete offer relations: %w", err)
		}
	}
	tag, err := t.tx.Exec(ctx, `DELETE FROM service_offers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete service offer: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (t *pgTx) GetOffer(ctx context.Context, id uuid.UUID) (Offer, error) {
	return getOffer(ctx, t.tx, `SELECT `+offerColumns+` FROM service_offers WHERE id = $1`, id)
}
