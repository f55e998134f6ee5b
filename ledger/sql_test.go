// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/pollwire/db"
	"github.com/danielhkuo/pollwire/models"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A single connection keeps the in-memory database alive and shared.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// Minimal catalog rows so vote foreign keys resolve.
	mustExec(t, conn, `INSERT INTO poll (id, title, created_at) VALUES ('p1', 'Lunch', $1)`, time.Now())
	mustExec(t, conn, `INSERT INTO poll_option (id, poll_id, title) VALUES ('optA', 'p1', 'Pizza')`)
	mustExec(t, conn, `INSERT INTO poll_option (id, poll_id, title) VALUES ('optB', 'p1', 'Sushi')`)

	return conn
}

func mustExec(t *testing.T, conn *sql.DB, query string, args ...any) {
	t.Helper()
	if _, err := conn.Exec(query, args...); err != nil {
		t.Fatalf("Failed to exec %q: %v", query, err)
	}
}

func TestSQLLedger_InsertAndFind(t *testing.T) {
	conn := setupDB(t)
	l := NewSQLLedger(conn)
	ctx := context.Background()

	v := models.Vote{
		ID:           "v1",
		SessionID:    "s1",
		PollID:       "p1",
		PollOptionID: "optA",
		CreatedAt:    time.Now(),
	}
	if err := l.Insert(ctx, v); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := l.FindBySessionAndPoll(ctx, "s1", "p1")
	if err != nil {
		t.Fatalf("FindBySessionAndPoll() error = %v", err)
	}
	if got.ID != "v1" || got.PollOptionID != "optA" {
		t.Errorf("FindBySessionAndPoll() = %+v, want v1/optA", got)
	}
}

func TestSQLLedger_FindMissing(t *testing.T) {
	conn := setupDB(t)
	l := NewSQLLedger(conn)

	_, err := l.FindBySessionAndPoll(context.Background(), "nobody", "p1")
	if err != ErrNotFound {
		t.Errorf("FindBySessionAndPoll() error = %v, want %v", err, ErrNotFound)
	}
}

func TestSQLLedger_InsertConflict(t *testing.T) {
	conn := setupDB(t)
	l := NewSQLLedger(conn)
	ctx := context.Background()

	v := models.Vote{ID: "v1", SessionID: "s1", PollID: "p1", PollOptionID: "optA", CreatedAt: time.Now()}
	if err := l.Insert(ctx, v); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	// Second record for the same (session, poll) must hit the unique index.
	dup := models.Vote{ID: "v2", SessionID: "s1", PollID: "p1", PollOptionID: "optB", CreatedAt: time.Now()}
	if err := l.Insert(ctx, dup); err != ErrConflictingVote {
		t.Errorf("Insert() error = %v, want %v", err, ErrConflictingVote)
	}
}

func TestSQLLedger_DeleteByID(t *testing.T) {
	conn := setupDB(t)
	l := NewSQLLedger(conn)
	ctx := context.Background()

	v := models.Vote{ID: "v1", SessionID: "s1", PollID: "p1", PollOptionID: "optA", CreatedAt: time.Now()}
	if err := l.Insert(ctx, v); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	removed, err := l.DeleteByID(ctx, "v1")
	if err != nil {
		t.Fatalf("DeleteByID() error = %v", err)
	}
	if !removed {
		t.Error("DeleteByID() = false, want true for a live record")
	}

	if _, err := l.FindBySessionAndPoll(ctx, "s1", "p1"); err != ErrNotFound {
		t.Errorf("expected record gone, got err = %v", err)
	}

	// Deleting again is a no-op and must say no row was retired, so the
	// recorder never refunds a tally unit for an already-replaced record.
	removed, err = l.DeleteByID(ctx, "v1")
	if err != nil {
		t.Errorf("DeleteByID() on absent record error = %v", err)
	}
	if removed {
		t.Error("DeleteByID() = true on absent record, want false")
	}
}

func TestSQLLedger_Counts(t *testing.T) {
	conn := setupDB(t)
	l := NewSQLLedger(conn)
	ctx := context.Background()

	votes := []models.Vote{
		{ID: "v1", SessionID: "s1", PollID: "p1", PollOptionID: "optA", CreatedAt: time.Now()},
		{ID: "v2", SessionID: "s2", PollID: "p1", PollOptionID: "optA", CreatedAt: time.Now()},
		{ID: "v3", SessionID: "s3", PollID: "p1", PollOptionID: "optB", CreatedAt: time.Now()},
	}
	for _, v := range votes {
		if err := l.Insert(ctx, v); err != nil {
			t.Fatalf("Insert(%s) error = %v", v.ID, err)
		}
	}

	counts, err := l.CountByOption(ctx, "p1")
	if err != nil {
		t.Fatalf("CountByOption() error = %v", err)
	}
	if counts["optA"] != 2 || counts["optB"] != 1 {
		t.Errorf("CountByOption() = %v, want optA:2 optB:1", counts)
	}

	all, err := l.CountAll(ctx)
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	if all["p1"]["optA"] != 2 || all["p1"]["optB"] != 1 {
		t.Errorf("CountAll() = %v, want p1 optA:2 optB:1", all)
	}
}
