// Package join implements hash left-joins over in-memory tables. It exists to
// link casualty rows to their vehicle and collision parents, so the semantics
// are deliberately narrow: left rows are never dropped or duplicated, and an
// unmatched right side simply stays null.
package join

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"stats19/internal/table"
	"stats19/pkg/records"
)

// LeftJoin joins right onto left using the named key columns, which must mean
// the same thing on both sides. The result has exactly one row per left row,
// in left order:
//
//   - each left row is matched against the first right row with an equal
//     composite key; further right duplicates are ignored
//   - unmatched left rows keep all their values and read nil for every
//     right-side column
//   - right key columns are not repeated in the output
//   - a non-key column name present on both sides is kept from BOTH, renamed
//     with the respective suffix, so no value is silently overwritten
//
// A left row with a nil key component matches nothing; it is retained like
// any other unmatched row. The second return value is the number of left rows
// that found no match, which the run summary and metrics report.
func LeftJoin(left, right *table.Table, on []string, leftSuffix, rightSuffix string) (*table.Table, int) {
	keyCol := make(map[string]struct{}, len(on))
	for _, c := range on {
		keyCol[c] = struct{}{}
	}

	// Right columns carried into the output (everything but the keys).
	var rightKeep []string
	for _, c := range right.Columns {
		if _, isKey := keyCol[c]; !isKey {
			rightKeep = append(rightKeep, c)
		}
	}

	// Disambiguate name collisions between the two sides.
	renameLeft := map[string]string{}
	renameRight := map[string]string{}
	for _, rc := range rightKeep {
		if left.Has(rc) {
			renameLeft[rc] = rc + leftSuffix
			renameRight[rc] = rc + rightSuffix
		}
	}

	outCols := make([]string, 0, len(left.Columns)+len(rightKeep))
	for _, c := range left.Columns {
		outCols = append(outCols, outName(c, renameLeft))
	}
	for _, c := range rightKeep {
		outCols = append(outCols, outName(c, renameRight))
	}

	// Hash index over the right side. Buckets hold row indexes; the composite
	// key is re-compared on lookup so a hash collision cannot mislink rows.
	index := make(map[uint64][]int, right.Len())
	for i, r := range right.Rows {
		k, ok := compositeKey(r, on)
		if !ok {
			continue
		}
		h := xxh3.HashString(k)
		index[h] = append(index[h], i)
	}

	unmatched := 0
	rows := make([]records.Record, 0, left.Len())
	for _, lr := range left.Rows {
		out := make(records.Record, len(outCols))
		for _, c := range left.Columns {
			out[outName(c, renameLeft)] = lr[c]
		}
		matched := false
		if k, ok := compositeKey(lr, on); ok {
			for _, ri := range index[xxh3.HashString(k)] {
				rk, _ := compositeKey(right.Rows[ri], on)
				if rk != k {
					continue
				}
				rr := right.Rows[ri]
				for _, c := range rightKeep {
					out[outName(c, renameRight)] = rr[c]
				}
				matched = true
				break
			}
		}
		if !matched {
			unmatched++
		}
		rows = append(rows, out)
	}
	return table.New(outCols, rows), unmatched
}

func outName(c string, rename map[string]string) string {
	if n, ok := rename[c]; ok {
		return n
	}
	return c
}

// compositeKey builds a joinable key string from the named columns of r.
// Returns ok=false when any component is missing or nil; such rows cannot
// match.
func compositeKey(r records.Record, on []string) (string, bool) {
	var b strings.Builder
	for i, c := range on {
		v, ok := r[c]
		if !ok || v == nil {
			return "", false
		}
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := v.(type) {
		case string:
			b.WriteString(t)
		default:
			// Stabilize across types coerced earlier.
			b.WriteString(fmt.Sprint(t))
		}
	}
	return b.String(), true
}
