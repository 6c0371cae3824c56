package table

import (
	"reflect"
	"testing"

	"stats19/pkg/records"
)

func TestTableBasics(t *testing.T) {
	tbl := New([]string{"a", "b"}, []records.Record{{"a": 1, "b": 2}})

	if tbl.Len() != 1 {
		t.Fatalf("Len = %d", tbl.Len())
	}
	if !tbl.Has("a") || tbl.Has("c") {
		t.Fatal("Has wrong")
	}
	if tbl.Value(0, "b") != 2 {
		t.Fatalf("Value = %v", tbl.Value(0, "b"))
	}
	if tbl.Value(5, "a") != nil || tbl.Value(-1, "a") != nil {
		t.Fatal("out-of-range Value should be nil")
	}
}

func TestAddColumn(t *testing.T) {
	tbl := New([]string{"a"}, nil)
	tbl.AddColumn("b")
	tbl.AddColumn("a")
	if !reflect.DeepEqual(tbl.Columns, []string{"a", "b"}) {
		t.Fatalf("columns = %v", tbl.Columns)
	}
}

func TestMatrix(t *testing.T) {
	tbl := New([]string{"a", "b"}, []records.Record{
		{"a": "x", "b": "y"},
		{"a": "z"},
	})
	m := tbl.Matrix([]string{"b", "a"})
	want := [][]any{{"y", "x"}, {nil, "z"}}
	if !reflect.DeepEqual(m, want) {
		t.Fatalf("matrix = %#v, want %#v", m, want)
	}
}
