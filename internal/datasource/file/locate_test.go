package file

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Collisions.csv"), []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FirstExisting(dir, "Accidents.csv", "Collisions.csv")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(dir, "Collisions.csv") {
		t.Fatalf("path = %q", got)
	}
}

func TestFirstExistingPrefersEarlierVariant(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Accidents.csv", "Collisions.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("a\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := FirstExisting(dir, "Accidents.csv", "Collisions.csv")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "Accidents.csv" {
		t.Fatalf("path = %q, want the first variant", got)
	}
}

func TestFirstExistingNone(t *testing.T) {
	_, err := FirstExisting(t.TempDir(), "Accidents.csv", "Collisions.csv")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("error should wrap os.ErrNotExist: %v", err)
	}
}
