// Package tidy builds the final one-row-per-casualty fact table from the
// joined input, selecting and renaming columns against the logical field
// catalog.
package tidy

import (
	"fmt"

	"stats19/internal/schema"
	"stats19/internal/table"
	"stats19/pkg/records"
)

// Project selects the catalog's fields out of the joined table, in catalog
// order. Required fields that did not survive the join are a structural
// failure. Optional fields whose aliases all miss are omitted outright, never
// null-filled. Fields marked Canonical are exposed under their logical name
// regardless of which alias carried them.
//
// The input table is not mutated; rows of the result are fresh records.
func Project(joined *table.Table, cat schema.Catalog) (*table.Table, error) {
	type pick struct {
		src, dst string
	}
	var picks []pick
	for _, f := range cat {
		src, ok := schema.ResolveField(joined, f)
		if !ok {
			if f.Required {
				return nil, fmt.Errorf("required column %q missing after join (tried %v)", f.Name, f.Candidates())
			}
			continue
		}
		dst := src
		if f.Canonical {
			dst = f.Name
		}
		picks = append(picks, pick{src: src, dst: dst})
	}

	cols := make([]string, len(picks))
	for i, p := range picks {
		cols[i] = p.dst
	}

	rows := make([]records.Record, len(joined.Rows))
	for i, r := range joined.Rows {
		nr := make(records.Record, len(picks))
		for _, p := range picks {
			nr[p.dst] = r[p.src]
		}
		rows[i] = nr
	}
	return table.New(cols, rows), nil
}
