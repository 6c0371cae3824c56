// Package sqlite implements a SQLite-backed sink using database/sql. It
// performs batched INSERTs inside a transaction; SQLite has no dedicated
// bulk-load API like Postgres COPY, but a single transaction keeps
// performance acceptable for one release's worth of rows.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stats19/internal/sink"
)

func init() {
	sink.Register("sqlite", func(ctx context.Context, cfg sink.Config) (sink.Sink, error) {
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return New(ctx, dsn, cfg.Table, cfg.AutoCreate)
	})
}

// Sink is a SQLite-backed sink.
type Sink struct {
	db         *sql.DB
	table      string
	autoCreate bool
	created    bool
}

// New opens (creating if absent) the SQLite database at dsn.
func New(ctx context.Context, dsn, tbl string, autoCreate bool) (*Sink, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if strings.TrimSpace(tbl) == "" {
		return nil, fmt.Errorf("sqlite: table must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &Sink{db: db, table: tbl, autoCreate: autoCreate}, nil
}

// Write inserts rows inside a single transaction with a prepared statement.
func (s *Sink) Write(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: columns must not be empty")
	}
	if s.autoCreate && !s.created {
		if err := s.ensureTable(ctx, columns, rows); err != nil {
			return 0, err
		}
		s.created = true
	}
	if len(rows) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(s.table),
		joinIdents(columns),
		strings.Join(placeholders, ", "),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return inserted, fmt.Errorf("sqlite: insert: %w", err)
		}
		inserted++
	}
	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Close closes the database handle.
func (s *Sink) Close() error { return s.db.Close() }

func (s *Sink) ensureTable(ctx context.Context, columns []string, rows [][]any) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), sqlType(i, rows))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(s.table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite: create table: %w", err)
	}
	return nil
}

// sqlType infers a column affinity from the first non-nil value in position i.
func sqlType(i int, rows [][]any) string {
	for _, row := range rows {
		if i >= len(row) || row[i] == nil {
			continue
		}
		switch row[i].(type) {
		case int, int64:
			return "INTEGER"
		case float64:
			return "REAL"
		case time.Time:
			return "TEXT"
		default:
			return "TEXT"
		}
	}
	return "TEXT"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func joinIdents(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
