package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	rvrepo "vitrine_backend/internal/rendezvous/repository"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quoteNotFoundMsg = "quote request not found"

// Status values of a quote request.
const (
	StatusNew      = "NEW"
	StatusSent     = "SENT"
	StatusReviewed = "REVIEWED"
)

// Item is one selected option with its quantity.
type Item struct {
	OptionID uuid.UUID
	Quantity int
}

// QuoteRequest is a stored selection plus contact details. Totals are never
// stored; they are recomputed from the live catalog when displayed.
type QuoteRequest struct {
	ID             uuid.UUID
	ServiceOfferID *uuid.UUID
	RendezvousID   *uuid.UUID
	RendezvousAt   *time.Time
	Status         string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Company        string
	Message        string
	Items          []Item
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListParams filters the admin list.
type ListParams struct {
	Status   *string
	Search   string
	Page     int
	PageSize int
}

// ListResult is one page of quote requests, without items.
type ListResult struct {
	Items []QuoteRequest
	Total int
}

// Repository is the quote request storage contract.
type Repository interface {
	// Create stores q and its items, and rv first when non-nil, in one transaction.
	Create(ctx context.Context, q QuoteRequest, rv *rvrepo.Rendezvous) (QuoteRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (QuoteRequest, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	// Update replaces the editable fields and all items.
	Update(ctx context.Context, q QuoteRequest) (QuoteRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quote request repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const selectQuote = `
	SELECT q.id, q.service_offer_id, q.rendezvous_id, r.scheduled_at, q.status,
		q.first_name, q.last_name, q.email, q.phone, q.company, q.message,
		q.created_at, q.updated_at
	FROM quote_requests q
	LEFT JOIN rendezvous r ON r.id = q.rendezvous_id`

func (r *Repo) Create(ctx context.Context, q QuoteRequest, rv *rvrepo.Rendezvous) (QuoteRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if rv != nil {
		if _, err := rvrepo.Insert(ctx, tx, *rv); err != nil {
			return QuoteRequest{}, err
		}
		q.RendezvousID = &rv.ID
	}

	query := `
		INSERT INTO quote_requests (
			id, service_offer_id, rendezvous_id, status,
			first_name, last_name, email, phone, company, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.Exec(ctx, query,
		q.ID, q.ServiceOfferID, q.RendezvousID, q.Status,
		q.FirstName, q.LastName, q.Email, q.Phone, q.Company, q.Message,
	); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return QuoteRequest{}, apperr.Field("serviceOfferId", "unknown service offer")
		}
		return QuoteRequest{}, fmt.Errorf("failed to insert quote request: %w", err)
	}

	if err := insertItems(ctx, tx, q.ID, q.Items); err != nil {
		return QuoteRequest{}, err
	}

	out, err := getByID(ctx, tx, q.ID)
	if err != nil {
		return QuoteRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to commit quote request: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (QuoteRequest, error) {
	return getByID(ctx, r.pool, id)
}

func (r *Repo) List(ctx context.Context, params ListParams) (ListResult, error) {
	var searchParam any
	if params.Search != "" {
		searchParam = "%" + params.Search + "%"
	}

	baseQuery := `
		FROM quote_requests q
		LEFT JOIN rendezvous r ON r.id = q.rendezvous_id
		WHERE ($1::text IS NULL OR q.status = $1)
			AND ($2::text IS NULL OR q.email ILIKE $2 OR q.last_name ILIKE $2 OR q.company ILIKE $2)`
	args := []any{params.Status, searchParam}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("failed to count quote requests: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	rows, err := r.pool.Query(ctx, `
		SELECT q.id, q.service_offer_id, q.rendezvous_id, r.scheduled_at, q.status,
			q.first_name, q.last_name, q.email, q.phone, q.company, q.message,
			q.created_at, q.updated_at
		`+baseQuery+`
		ORDER BY q.created_at DESC
		LIMIT $3 OFFSET $4`, append(args, params.PageSize, offset)...)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list quote requests: %w", err)
	}
	defer rows.Close()

	items := make([]QuoteRequest, 0)
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("failed to scan quote request: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("failed to iterate quote requests: %w", err)
	}

	return ListResult{Items: items, Total: total}, nil
}

func (r *Repo) Update(ctx context.Context, q QuoteRequest) (QuoteRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		UPDATE quote_requests SET
			service_offer_id = $2, first_name = $3, last_name = $4, email = $5,
			phone = $6, company = $7, message = $8, updated_at = now()
		WHERE id = $1`,
		q.ID, q.ServiceOfferID, q.FirstName, q.LastName, q.Email, q.Phone, q.Company, q.Message,
	)
	if err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return QuoteRequest{}, apperr.Field("serviceOfferId", "unknown service offer")
		}
		return QuoteRequest{}, fmt.Errorf("failed to update quote request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return QuoteRequest{}, apperr.NotFound(quoteNotFoundMsg)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quote_request_options WHERE quote_request_id = $1`, q.ID); err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to clear quote request options: %w", err)
	}
	if err := insertItems(ctx, tx, q.ID, q.Items); err != nil {
		return QuoteRequest{}, err
	}

	out, err := getByID(ctx, tx, q.ID)
	if err != nil {
		return QuoteRequest{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to commit quote request: %w", err)
	}
	return out, nil
}

func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx, `UPDATE quote_requests SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update quote request status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

// Delete removes the quote request and its items. A linked rendez-vous is kept.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quote_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quoteNotFoundMsg)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, quoteID uuid.UUID, items []Item) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`INSERT INTO quote_request_options (quote_request_id, option_id, quantity) VALUES ($1, $2, $3)`,
			quoteID, item.OptionID, item.Quantity)
	}

	br := tx.SendBatch(ctx, batch)
	for range items {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if db.IsForeignKeyViolation(err, "") {
				return apperr.Field("offerOptionIds", "unknown option")
			}
			return fmt.Errorf("failed to insert quote request option: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to insert quote request options: %w", err)
	}
	return nil
}

func getByID(ctx context.Context, q rvrepo.DBTX, id uuid.UUID) (QuoteRequest, error) {
	quote, err := scanQuote(q.QueryRow(ctx, selectQuote+` WHERE q.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QuoteRequest{}, apperr.NotFound(quoteNotFoundMsg)
		}
		return QuoteRequest{}, fmt.Errorf("failed to get quote request: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT qo.option_id, qo.quantity
		FROM quote_request_options qo
		JOIN offer_options o ON o.id = qo.option_id
		WHERE qo.quote_request_id = $1
		ORDER BY o.sort_order, o.title`, id)
	if err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to load quote request options: %w", err)
	}
	defer rows.Close()

	quote.Items = make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.OptionID, &item.Quantity); err != nil {
			return QuoteRequest{}, fmt.Errorf("failed to scan quote request option: %w", err)
		}
		quote.Items = append(quote.Items, item)
	}
	if err := rows.Err(); err != nil {
		return QuoteRequest{}, fmt.Errorf("failed to iterate quote request options: %w", err)
	}
	return quote, nil
}

func scanQuote(row pgx.Row) (QuoteRequest, error) {
	var q QuoteRequest
	err := row.Scan(
		&q.ID, &q.ServiceOfferID, &q.RendezvousID, &q.RendezvousAt, &q.Status,
		&q.FirstName, &q.LastName, &q.Email, &q.Phone, &q.Company, &q.Message,
		&q.CreatedAt, &q.UpdatedAt,
	)
	return q, err
}
