// Package mssql implements a SQL Server sink using database/sql. Batches are
// sized so a multi-row INSERT stays under the server's 2100-parameter limit.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"stats19/internal/sink"
)

// maxParams is SQL Server's per-statement parameter ceiling, minus headroom.
const maxParams = 2000

func init() {
	sink.Register("mssql", func(ctx context.Context, cfg sink.Config) (sink.Sink, error) {
		return New(ctx, cfg.DSN, cfg.Table, cfg.AutoCreate)
	})
}

// Sink is a SQL Server-backed sink.
type Sink struct {
	db         *sql.DB
	table      string
	autoCreate bool
	created    bool
}

// New opens a SQL Server connection pool for the given DSN.
func New(ctx context.Context, dsn, tbl string, autoCreate bool) (*Sink, error) {
	if strings.TrimSpace(tbl) == "" {
		return nil, fmt.Errorf("mssql: table must not be empty")
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("mssql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mssql: ping: %w", err)
	}
	return &Sink{db: db, table: tbl, autoCreate: autoCreate}, nil
}

// Write inserts rows in parameter-bounded batches inside one transaction.
func (s *Sink) Write(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mssql: columns must not be empty")
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

	batch := maxParams / len(columns)
	if batch < 1 {
		batch = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}

	var inserted int64
	for start := 0; start < len(rows); start += batch {
		end := start + batch
		if end > len(rows) {
			end = len(rows)
		}
		n, err := s.insertBatch(ctx, tx, columns, rows[start:end])
		inserted += n
		if err != nil {
			_ = tx.Rollback()
			return inserted, err
		}
	}
	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("mssql: commit: %w", err)
	}
	return inserted, nil
}

func (s *Sink) insertBatch(ctx context.Context, tx *sql.Tx, columns []string, rows [][]any) (int64, error) {
	values := make([]string, len(rows))
	args := make([]any, 0, len(rows)*len(columns))
	p := 1
	for i, row := range rows {
		if len(row) != len(columns) {
			return 0, fmt.Errorf("mssql: row length %d != columns length %d", len(row), len(columns))
		}
		ph := make([]string, len(columns))
		for j := range columns {
			ph[j] = fmt.Sprintf("@p%d", p)
			p++
		}
		values[i] = "(" + strings.Join(ph, ", ") + ")"
		args = append(args, row...)
	}
	stmt := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		quoteIdent(s.table), joinIdents(columns), strings.Join(values, ", "),
	)
	res, err := tx.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("mssql: insert: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *Sink) ensureTable(ctx context.Context, columns []string, rows [][]any) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(c), sqlType(i, rows))
	}
	ddl := fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL CREATE TABLE %s (%s)",
		s.table, quoteIdent(s.table), strings.Join(defs, ", "),
	)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mssql: create table: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Sink) Close() error { return s.db.Close() }

// sqlType infers a column type from the first non-nil value in position i.
func sqlType(i int, rows [][]any) string {
	for _, row := range rows {
		if i >= len(row) || row[i] == nil {
			continue
		}
		switch row[i].(type) {
		case int, int64:
			return "BIGINT"
		case float64:
			return "FLOAT"
		case time.Time:
			return "DATE"
		default:
			return "NVARCHAR(MAX)"
		}
	}
	return "NVARCHAR(MAX)"
}

func quoteIdent(s string) string {
	return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
}

func joinIdents(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c)
	}
	return strings.Join(quoted, ", ")
}
