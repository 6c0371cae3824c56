// Package csvfile implements a CSV file sink. It is the default output
// backend: one header row, then one line per tidy fact row.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stats19/internal/sink"
)

func init() {
	sink.Register("csv", func(_ context.Context, cfg sink.Config) (sink.Sink, error) {
		return New(cfg.Path)
	})
}

// Sink writes rows to a single CSV file. Not safe for concurrent use.
type Sink struct {
	f           *os.File
	w           *csv.Writer
	wroteHeader bool
}

// New creates (or truncates) the output file, creating parent directories as
// needed.
func New(path string) (*Sink, error) {
	if path == "" {
		return nil, fmt.Errorf("csv sink: path must not be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("csv sink: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv sink: create %s: %w", path, err)
	}
	return &Sink{f: f, w: csv.NewWriter(f)}, nil
}

// Write emits the header on the first call, then one line per row. Row length
// must match the column list.
func (s *Sink) Write(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if !s.wroteHeader {
		if err := s.w.Write(columns); err != nil {
			return 0, fmt.Errorf("csv sink: write header: %w", err)
		}
		s.wroteHeader = true
	}

	var written int64
	line := make([]string, len(columns))
	for _, row := range rows {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
		if len(row) != len(columns) {
			return written, fmt.Errorf("csv sink: row length %d != columns length %d", len(row), len(columns))
		}
		for i, v := range row {
			line[i] = formatValue(v)
		}
		if err := s.w.Write(line); err != nil {
			return written, fmt.Errorf("csv sink: write row: %w", err)
		}
		written++
	}
	return written, nil
}

// Close flushes buffered output and closes the file.
func (s *Sink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return fmt.Errorf("csv sink: flush: %w", err)
	}
	return s.f.Close()
}

// formatValue renders a cell. Nulls become empty cells; dates use the ISO
// form so the file round-trips unambiguously whatever layout the release
// used.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
