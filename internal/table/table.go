// Package table provides the in-memory tabular model used between pipeline
// stages: an ordered column list plus one records.Record per row. Column order
// matters for output; row access stays map-based so stages can be written
// against logical field names instead of positions.
package table

import "stats19/pkg/records"

// Table is an ordered set of columns over a slice of rows. The zero value is
// an empty table.
type Table struct {
	Columns []string
	Rows    []records.Record
}

// New constructs a Table from a column list and rows. Both slices are used
// as-is (not copied).
func New(columns []string, rows []records.Record) *Table {
	return &Table{Columns: columns, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Has reports whether the table contains a column with the given name.
func (t *Table) Has(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn appends a column name to the ordered list if not already present.
// Row values are supplied by the caller.
func (t *Table) AddColumn(name string) {
	if !t.Has(name) {
		t.Columns = append(t.Columns, name)
	}
}

// Value returns the value of column name in row i, or nil when the row has no
// entry for it (e.g. the unmatched side of a left join).
func (t *Table) Value(i int, name string) any {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i][name]
}

// Matrix converts the table to positional rows aligned with the given column
// order, suitable for sink bulk-insert APIs. Missing values become nil.
func (t *Table) Matrix(columns []string) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}
