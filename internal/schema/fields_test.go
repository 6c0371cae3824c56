package schema

import (
	"testing"

	"stats19/internal/table"
)

func TestResolvePriority(t *testing.T) {
	candidates := []string{"severity", "casualty_severity"}

	// Only the lower-priority alias present.
	old := table.New([]string{"accident_index", "casualty_severity"}, nil)
	got, ok := Resolve(old, candidates)
	if !ok || got != "casualty_severity" {
		t.Fatalf("Resolve = %q, %v; want casualty_severity", got, ok)
	}

	// Both present: first by priority wins.
	both := table.New([]string{"casualty_severity", "severity"}, nil)
	got, ok = Resolve(both, candidates)
	if !ok || got != "severity" {
		t.Fatalf("Resolve = %q, %v; want severity", got, ok)
	}

	// Neither present.
	none := table.New([]string{"accident_index"}, nil)
	if _, ok := Resolve(none, candidates); ok {
		t.Fatal("Resolve matched a column that does not exist")
	}
}

func TestFieldCandidates(t *testing.T) {
	plain := Field{Name: "vehicle_type"}
	if got := plain.Candidates(); len(got) != 1 || got[0] != "vehicle_type" {
		t.Fatalf("Candidates = %v", got)
	}

	aliased := Field{Name: "date", Aliases: []string{"date", "accident_date"}}
	got := aliased.Candidates()
	if len(got) != 2 || got[0] != "date" || got[1] != "accident_date" {
		t.Fatalf("Candidates = %v", got)
	}
}

func TestDefaultCatalog(t *testing.T) {
	cat := Default()

	for _, name := range []string{"accident_index", "vehicle_reference"} {
		f, ok := cat.Lookup(name)
		if !ok || !f.Required {
			t.Fatalf("%s should be a required field", name)
		}
	}

	sev, ok := cat.Lookup("severity")
	if !ok || !sev.Canonical {
		t.Fatal("severity should be canonical")
	}
	if len(sev.Aliases) != 2 || sev.Aliases[0] != "severity" {
		t.Fatalf("severity aliases = %v", sev.Aliases)
	}

	if _, ok := cat.Lookup("no_such_field"); ok {
		t.Fatal("Lookup matched a field that does not exist")
	}
}
