package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func TestSinkRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy.db")
	ctx := context.Background()

	s, err := New(ctx, path, "casualty_joined", true)
	if err != nil {
		t.Fatal(err)
	}

	cols := []string{"accident_index", "severity", "year"}
	rows := [][]any{
		{"A1", "3", 2020},
		{"A2", nil, 2019},
	}
	n, err := s.Write(ctx, cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("inserted = %d, want 2", n)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT count(*) FROM "casualty_joined"`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	var sev sql.NullString
	if err := db.QueryRow(`SELECT "severity" FROM "casualty_joined" WHERE "accident_index" = 'A2'`).Scan(&sev); err != nil {
		t.Fatal(err)
	}
	if sev.Valid {
		t.Fatalf("severity should be NULL, got %q", sev.String)
	}
}

func TestSinkEmptyConfig(t *testing.T) {
	ctx := context.Background()
	if _, err := New(ctx, "", "t", false); err == nil {
		t.Fatal("expected an error for an empty DSN")
	}
	if _, err := New(ctx, "file.db", "", false); err == nil {
		t.Fatal("expected an error for an empty table")
	}
}
