package transformer

import (
	"testing"

	"stats19/pkg/records"
)

type addKey struct{ k, v string }

func (a addKey) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		r[a.k] = a.v
	}
	return in
}

func TestChainOrder(t *testing.T) {
	c := Chain{addKey{"x", "first"}, addKey{"x", "second"}, addKey{"y", "only"}}
	out := c.Apply([]records.Record{{}})
	if out[0]["x"] != "second" {
		t.Fatalf("x = %v; later transformers must win", out[0]["x"])
	}
	if out[0]["y"] != "only" {
		t.Fatalf("y = %v", out[0]["y"])
	}
}

func TestChainEmpty(t *testing.T) {
	in := []records.Record{{"a": 1}}
	out := Chain{}.Apply(in)
	if len(out) != 1 || out[0]["a"] != 1 {
		t.Fatalf("empty chain changed input: %#v", out)
	}
}
