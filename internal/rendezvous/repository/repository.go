package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	rendezvousNotFoundMsg = "rendezvous not found"
	slotTakenMsg          = "this time slot is already booked"

	slotConstraint = "rendezvous_slot_key"
)

// Status values of a rendez-vous.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Rendezvous is a booked meeting slot.
type Rendezvous struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	ScheduledAt time.Time
	Topic       string
	Message     string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ListParams filters the admin list.
type ListParams struct {
	Status   *string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// ListResult is one page of rendez-vous.
type ListResult struct {
	Items []Rendezvous
	Total int
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so Insert can join a caller's transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository is the rendez-vous storage contract.
type Repository interface {
	Create(ctx context.Context, rv Rendezvous) (Rendezvous, error)
	GetByID(ctx context.Context, id uuid.UUID) (Rendezvous, error)
	List(ctx context.Context, params ListParams) (ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Rendezvous, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new rendez-vous repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

const columns = `id, first_name, last_name, email, phone, scheduled_at, topic, message, status, created_at, updated_at`

// Insert stores rv with q. A non-cancelled booking at the same instant is a conflict.
func Insert(ctx context.Context, q DBTX, rv Rendezvous) (Rendezvous, error) {
	query := `
		INSERT INTO rendezvous (id, first_name, last_name, email, phone, scheduled_at, topic, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + columns

	out, err := scanRendezvous(q.QueryRow(ctx, query,
		rv.ID, rv.FirstName, rv.LastName, rv.Email, rv.Phone,
		rv.ScheduledAt, rv.Topic, rv.Message, rv.Status,
	))
	if err != nil {
		if db.IsUniqueViolation(err, slotConstraint) {
			return Rendezvous{}, apperr.Conflict(slotTakenMsg)
		}
		return Rendezvous{}, fmt.Errorf("failed to insert rendezvous: %w", err)
	}
	return out, nil
}

func (r *Repo) Create(ctx context.Context, rv Rendezvous) (Rendezvous, error) {
	return Insert(ctx, r.pool, rv)
}

func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Rendezvous, error) {
	rv, err := scanRendezvous(r.pool.QueryRow(ctx, `SELECT `+columns+` FROM rendezvous WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rendezvous{}, apperr.NotFound(rendezvousNotFoundMsg)
		}
		return Rendezvous{}, fmt.Errorf("failed to get rendezvous: %w", err)
	}
	return rv, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (ListResult, error) {
	baseQuery := `
		FROM rendezvous
		WHERE ($1::text IS NULL OR status = $1)
			AND ($2::timestamptz IS NULL OR scheduled_at >= $2)
			AND ($3::timestamptz IS NULL OR scheduled_at < $3)`
	args := []any{params.Status, params.From, params.To}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return ListResult{}, fmt.Errorf("failed to count rendezvous: %w", err)
	}

	offset := (params.Page - 1) * params.PageSize
	rows, err := r.pool.Query(ctx, `SELECT `+columns+baseQuery+`
		ORDER BY scheduled_at DESC
		LIMIT $4 OFFSET $5`, append(args, params.PageSize, offset)...)
	if err != nil {
		return ListResult{}, fmt.Errorf("failed to list rendezvous: %w", err)
	}
	defer rows.Close()

	items := make([]Rendezvous, 0)
	for rows.Next() {
		rv, err := scanRendezvous(rows)
		if err != nil {
			return ListResult{}, fmt.Errorf("failed to scan rendezvous: %w", err)
		}
		items = append(items, rv)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, fmt.Errorf("failed to iterate rendezvous: %w", err)
	}

	return ListResult{Items: items, Total: total}, nil
}

// UpdateStatus changes the status. Re-activating a cancelled booking whose
// slot was taken in the meantime is a conflict.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Rendezvous, error) {
	rv, err := scanRendezvous(r.pool.QueryRow(ctx, `
		UPDATE rendezvous SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+columns, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rendezvous{}, apperr.NotFound(rendezvousNotFoundMsg)
		}
		if db.IsUniqueViolation(err, slotConstraint) {
			return Rendezvous{}, apperr.Conflict(slotTakenMsg)
		}
		return Rendezvous{}, fmt.Errorf("failed to update rendezvous status: %w", err)
	}
	return rv, nil
}

// Delete removes a rendez-vous. Linked quote requests keep their rows.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rendezvous WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rendezvous: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(rendezvousNotFoundMsg)
	}
	return nil
}

func scanRendezvous(row pgx.Row) (Rendezvous, error) {
	var rv Rendezvous
	err := row.Scan(
		&rv.ID, &rv.FirstName, &rv.LastName, &rv.Email, &rv.Phone,
		&rv.ScheduledAt, &rv.Topic, &rv.Message, &rv.Status, &rv.CreatedAt, &rv.UpdatedAt,
	)
	return rv, err
}
