package schema

import (
	"reflect"
	"testing"

	"stats19/internal/table"
	"stats19/pkg/records"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Accident_Index":             "accident_index",
		"  Casualty Severity ":       "casualty_severity",
		"Local_Authority_(District)": "local_authority_(district)",
		"date":                       "date",
		"Age Band of Casualty":       "age_band_of_casualty",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeTable(t *testing.T) {
	in := table.New(
		[]string{"Accident_Index", "Casualty Severity"},
		[]records.Record{{"Accident_Index": "A1", "Casualty Severity": "3"}},
	)
	out := Normalize(in)

	want := []string{"accident_index", "casualty_severity"}
	if !reflect.DeepEqual(out.Columns, want) {
		t.Fatalf("columns = %v, want %v", out.Columns, want)
	}
	if got := out.Value(0, "accident_index"); got != "A1" {
		t.Fatalf("accident_index = %v, want A1", got)
	}
	if got := out.Value(0, "casualty_severity"); got != "3" {
		t.Fatalf("casualty_severity = %v, want 3", got)
	}
}

/*
TestNormalizeIdempotent verifies that normalizing an already-normalized
table changes nothing, so releases published with lowercase headers pass
through untouched.
*/
func TestNormalizeIdempotent(t *testing.T) {
	in := table.New(
		[]string{"accident_index", "severity"},
		[]records.Record{{"accident_index": "A1", "severity": "2"}},
	)
	out := Normalize(in)
	if !reflect.DeepEqual(out.Columns, in.Columns) {
		t.Fatalf("columns changed: %v", out.Columns)
	}
	out2 := Normalize(out)
	if !reflect.DeepEqual(out2.Columns, out.Columns) || out2.Value(0, "severity") != "2" {
		t.Fatalf("second normalize not a no-op")
	}
}
