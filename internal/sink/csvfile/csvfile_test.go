package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSinkWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tidy.csv")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}

	cols := []string{"accident_index", "severity", "date", "year"}
	rows := [][]any{
		{"A1", "3", time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC), 2020},
		{"A2", nil, nil, nil},
	}
	n, err := s.Write(context.Background(), cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 rows", len(lines))
	}
	if lines[0] != "accident_index,severity,date,year" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "A1,3,2020-12-31,2020" {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "A2,,," {
		t.Fatalf("null cells should be empty: %q", lines[2])
	}
}

func TestSinkRowWidthMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy.csv")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Write(context.Background(), []string{"a", "b"}, [][]any{{"only"}}); err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestSinkEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected an error for an empty path")
	}
}
