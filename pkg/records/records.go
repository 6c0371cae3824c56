// Package records defines the row model shared by every pipeline stage.
package records

// Record is a single parsed row, keyed by normalized column name. Values are
// either string (as parsed), nil (empty / unmatched join side), or a typed
// value produced by a transformer (int, float64, time.Time).
type Record map[string]any

// Clone returns a shallow copy of r. Values are shared; only the map itself
// is new, so callers can add or rename keys without touching the original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
