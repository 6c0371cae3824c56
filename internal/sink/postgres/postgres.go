// Package postgres implements a Postgres sink using pgx v5. Rows are loaded
// with the COPY protocol, which is the fastest path for a full-table write.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stats19/internal/sink"
)

func init() {
	sink.Register("postgres", func(ctx context.Context, cfg sink.Config) (sink.Sink, error) {
		return New(ctx, cfg.DSN, cfg.Table, cfg.AutoCreate)
	})
}

// Sink is a Postgres-backed sink.
type Sink struct {
	pool       *pgxpool.Pool
	table      string
	autoCreate bool
	created    bool
}

// New connects a pgx pool to the given DSN.
func New(ctx context.Context, dsn, tbl string, autoCreate bool) (*Sink, error) {
	if strings.TrimSpace(tbl) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Sink{pool: pool, table: tbl, autoCreate: autoCreate}, nil
}

// Write COPYs rows into the target table.
func (s *Sink) Write(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: columns must not be empty")
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

	n, err := s.pool.CopyFrom(ctx, tableIdent(s.table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// Close releases the pool.
func (s *Sink) Close() error {
	s.pool.Close()
	return nil
}

func (s *Sink) ensureTable(ctx context.Context, columns []string, rows [][]any) error {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = fmt.Sprintf("%s %s", pgIdent(c), sqlType(i, rows))
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		tableIdent(s.table).Sanitize(),
		strings.Join(defs, ", "),
	)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// sqlType infers a column type from the first non-nil value in position i.
func sqlType(i int, rows [][]any) string {
	for _, row := range rows {
		if i >= len(row) || row[i] == nil {
			continue
		}
		switch row[i].(type) {
		case int, int64:
			return "integer"
		case float64:
			return "double precision"
		case time.Time:
			return "date"
		default:
			return "text"
		}
	}
	return "text"
}

// tableIdent splits an optionally schema-qualified name into a pgx.Identifier.
func tableIdent(name string) pgx.Identifier {
	parts := strings.Split(name, ".")
	return pgx.Identifier(parts)
}

func pgIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
