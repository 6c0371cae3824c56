package tidy

import (
	"reflect"
	"strings"
	"testing"

	"stats19/internal/schema"
	"stats19/internal/table"
	"stats19/pkg/records"
)

func testCatalog() schema.Catalog {
	return schema.Catalog{
		{Name: "accident_index", Required: true},
		{Name: "vehicle_reference", Required: true},
		{Name: "severity", Aliases: []string{"severity", "casualty_severity"}, Canonical: true},
		{Name: "vehicle_type"},
		{Name: "speed_limit"},
	}
}

func TestProject(t *testing.T) {
	joined := table.New(
		[]string{"accident_index", "vehicle_reference", "casualty_severity", "speed_limit", "junk"},
		[]records.Record{{
			"accident_index":    "A1",
			"vehicle_reference": "1",
			"casualty_severity": "3",
			"speed_limit":       "30",
			"junk":              "x",
		}},
	)

	out, err := Project(joined, testCatalog())
	if err != nil {
		t.Fatal(err)
	}

	// vehicle_type is absent from the input so it is omitted, not null-filled.
	want := []string{"accident_index", "vehicle_reference", "severity", "speed_limit"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Fatalf("columns = %v, want %v", out.Columns, want)
	}

	// The alias that carried severity is exposed under the canonical name.
	if got := out.Value(0, "severity"); got != "3" {
		t.Fatalf("severity = %#v, want 3", got)
	}
	if _, ok := out.Rows[0]["casualty_severity"]; ok {
		t.Fatal("source alias leaked into the output")
	}
	if _, ok := out.Rows[0]["junk"]; ok {
		t.Fatal("uncataloged column leaked into the output")
	}
}

func TestProjectModernSeverityName(t *testing.T) {
	joined := table.New(
		[]string{"accident_index", "vehicle_reference", "severity"},
		[]records.Record{{"accident_index": "A1", "vehicle_reference": "1", "severity": "2"}},
	)
	out, err := Project(joined, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Value(0, "severity"); got != "2" {
		t.Fatalf("severity = %#v, want 2", got)
	}
}

func TestProjectRequiredMissing(t *testing.T) {
	joined := table.New(
		[]string{"accident_index", "severity"},
		[]records.Record{{"accident_index": "A1", "severity": "2"}},
	)
	_, err := Project(joined, testCatalog())
	if err == nil {
		t.Fatal("expected an error for a missing required column")
	}
	if !strings.Contains(err.Error(), "vehicle_reference") {
		t.Fatalf("error should name the missing column: %v", err)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	row := records.Record{"accident_index": "A1", "vehicle_reference": "1", "severity": "2"}
	joined := table.New([]string{"accident_index", "vehicle_reference", "severity"}, []records.Record{row})

	out, err := Project(joined, testCatalog())
	if err != nil {
		t.Fatal(err)
	}
	out.Rows[0]["severity"] = "changed"
	if row["severity"] != "2" {
		t.Fatal("projection mutated the input row")
	}
}
