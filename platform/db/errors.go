package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	return hasCode(err, uniqueViolation, constraint)
}

// IsForeignKeyViolation reports whether err is a foreign key violation,
// optionally restricted to one constraint name.
func IsForeignKeyViolation(err error, constraint string) bool {
	return hasCode(err, foreignKeyViolation, constraint)
}

func hasCode(err error, code, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
