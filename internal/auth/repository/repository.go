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
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	userNotFoundMsg       = "user not found"
	emailUniqueConstraint = "users_email_key"

	userColumns = `id, email, full_name, password_hash, is_admin, created_at, updated_at`
)

type User struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines the data operations for dashboard users.
type Repository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	// UpdateUser writes email, name and role. PasswordHash is written only when non-empty.
	UpdateUser(ctx context.Context, u User) (User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context) (int, error)
	CountAdmins(ctx context.Context) (int, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

func (r *Repo) CreateUser(ctx context.Context, u User) (User, error) {
	return singleUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, full_name, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.IsAdmin), "create")
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return singleUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), "get")
}

func (r *Repo) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return singleUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), "get")
}

func (r *Repo) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *Repo) UpdateUser(ctx context.Context, u User) (User, error) {
	return singleUser(r.pool.QueryRow(ctx, `
		UPDATE users SET
			email = $2,
			full_name = $3,
			is_admin = $4,
			password_hash = COALESCE(NULLIF($5, ''), password_hash),
			updated_at = now()
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Email, u.FullName, u.IsAdmin, u.PasswordHash), "update")
}

func (r *Repo) DeleteUser(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

func (r *Repo) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (r *Repo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE is_admin`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return n, nil
}

func singleUser(row pgx.Row, op string) (User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound(userNotFoundMsg)
		}
		if db.IsUniqueViolation(err, emailUniqueConstraint) {
			return User{}, apperr.Field("email", "is already used by another account")
		}
		return User{}, fmt.Errorf("failed to %s user: %w", op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
