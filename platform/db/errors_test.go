package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolationMatchesConstraint(t *testing.T) {
	err := fmt.Errorf("insert offer: %w", &pgconn.PgError{Code: "23505", ConstraintName: "service_offers_slug_key"})

	if !IsUniqueViolation(err, "service_offers_slug_key") {
		t.Fatal("expected wrapped unique violation to match its constraint")
	}
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected unique violation to match without constraint filter")
	}
	if IsUniqueViolation(err, "offer_options_slug_key") {
		t.Fatal("expected other constraint name not to match")
	}
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Fatal("plain errors are not unique violations")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("foreign key violations are not unique violations")
	}
	if !IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Fatal("expected foreign key violation")
	}
}
