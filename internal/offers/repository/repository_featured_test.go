package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

// recordingTx captures Exec calls; any other pgx.Tx method panics.
type recordingTx struct {
	pgx.Tx
	calls  []execCall
	failAt int
}

func (r *recordingTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.calls = append(r.calls, execCall{sql: sql, args: args})
	if r.failAt > 0 && len(r.calls) == r.failAt {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	return pgconn.NewCommandTag("OK"), nil
}

func TestUnfeatureOthersTakesAdvisoryLockBeforeUpdate(t *testing.T) {
	rec := &recordingTx{}
	keep := uuid.New()

	if err := (&pgTx{tx: rec}).UnfeatureOthers(context.Background(), keep); err != nil {
		t.Fatalf("unfeature: %v", err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(rec.calls))
	}

	lock := strings.ToLower(rec.calls[0].sql)
	if !strings.Contains(lock, "pg_advisory_xact_lock($1)") {
		t.Fatalf("expected transaction-scoped advisory lock first, got %q", rec.calls[0].sql)
	}
	if len(rec.calls[0].args) != 1 || rec.calls[0].args[0] != featuredLockKey {
		t.Fatalf("expected lock on featured key, got %v", rec.calls[0].args)
	}

	update := strings.ToLower(rec.calls[1].sql)
	for _, fragment := range []string{
		"update service_offers set is_featured = false",
		"where is_featured = true and id <> $1",
	} {
		if !strings.Contains(update, fragment) {
			t.Fatalf("expected update fragment %q in %q", fragment, rec.calls[1].sql)
		}
	}
	if rec.calls[1].args[0] != keep {
		t.Fatalf("expected kept offer id %s, got %v", keep, rec.calls[1].args[0])
	}
}

func TestUnfeatureOthersSkipsUpdateWhenLockFails(t *testing.T) {
	rec := &recordingTx{failAt: 1}

	err := (&pgTx{tx: rec}).UnfeatureOthers(context.Background(), uuid.New())
	if err == nil || !strings.Contains(err.Error(), "lock featured offer") {
		t.Fatalf("expected lock error, got %v", err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("expected no update after a failed lock, got %d statements", len(rec.calls))
	}
}
