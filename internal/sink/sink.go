// Package sink contains the output-boundary contracts and the backend
// factory. The pipeline hands the projected tidy table to a Sink and stays
// agnostic of whether the bytes land in a CSV file, a SQLite file, or a
// database server.
//
// Backends register themselves at init time; importing stats19/internal/sink/all
// (typically as a blank import in the wiring layer) makes every built-in kind
// available.
package sink

import (
	"context"
	"fmt"
	"sync"
)

// Config selects and configures a sink backend.
type Config struct {
	// Kind selects the backend: "csv", "sqlite", "postgres", "mysql", "mssql".
	Kind string `json:"kind"`

	// Path is the output file location for file-based sinks (csv, sqlite).
	Path string `json:"path"`

	// DSN is the connection string for server-based sinks.
	DSN string `json:"dsn"`

	// Table is the destination table name for database sinks.
	Table string `json:"table"`

	// AutoCreate makes database sinks issue CREATE TABLE IF NOT EXISTS with
	// types inferred from the data before the first insert.
	AutoCreate bool `json:"auto_create"`
}

// Sink persists positional rows aligned to a column list. Write may be called
// once with the whole table or repeatedly in batches; Close releases the
// underlying resources and finalizes file output.
type Sink interface {
	Write(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Close() error
}

// Factory constructs a Sink for a Config.
type Factory func(ctx context.Context, cfg Config) (Sink, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for a sink kind. It is called
// from backend packages' init() functions.
func Register(kind string, fn Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = fn
}

// New constructs the sink selected by cfg.Kind.
func New(ctx context.Context, cfg Config) (Sink, error) {
	mu.RLock()
	fn, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sink kind %q", cfg.Kind)
	}
	return fn(ctx, cfg)
}

// Kinds returns the registered sink kinds, for CLI help and config linting.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	return out
}
