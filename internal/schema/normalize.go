// Package schema holds the column-name normalizer, the logical field catalog,
// and the alias resolver that together absorb release-to-release schema drift
// in the STATS19 extracts.
package schema

import (
	"strings"

	"stats19/internal/table"
	"stats19/pkg/records"
)

// NormalizeName canonicalizes a single column name: leading/trailing
// whitespace trimmed, lowercased, internal spaces replaced with underscores.
// Normalizing an already-normalized name is a no-op.
func NormalizeName(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// Normalize returns a table equivalent to t whose column names have all been
// passed through NormalizeName. Row count and order are unchanged. Two
// distinct input names normalizing to the same output name is a pre-existing
// data-quality violation; the later column wins and no attempt is made to
// detect it.
func Normalize(t *table.Table) *table.Table {
	cols := make([]string, len(t.Columns))
	rename := false
	for i, c := range t.Columns {
		cols[i] = NormalizeName(c)
		if cols[i] != c {
			rename = true
		}
	}
	if !rename {
		return table.New(cols, t.Rows)
	}

	rows := make([]records.Record, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(records.Record, len(r))
		for k, v := range r {
			nr[NormalizeName(k)] = v
		}
		rows[i] = nr
	}
	return table.New(cols, rows)
}
