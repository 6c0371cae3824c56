package builtin

import (
	"testing"

	"stats19/pkg/records"
)

func TestNormalize(t *testing.T) {
	recs := []records.Record{{
		"a": "  padded  ",
		"b": "   ",
		"c": "",
		"d": 42,
	}}
	out := Normalize{}.Apply(recs)

	if got := out[0]["a"]; got != "padded" {
		t.Fatalf("a = %#v, want padded", got)
	}
	if got := out[0]["b"]; got != nil {
		t.Fatalf("whitespace-only value should be nil, got %#v", got)
	}
	if got := out[0]["c"]; got != nil {
		t.Fatalf("empty value should be nil, got %#v", got)
	}
	if got := out[0]["d"]; got != 42 {
		t.Fatalf("non-string value changed: %#v", got)
	}
}
