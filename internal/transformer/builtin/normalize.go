// Package builtin contains simple, reusable transformers used by the
// pipeline.
package builtin

import (
	"strings"

	"stats19/pkg/records"
)

// Normalize trims surrounding whitespace from every string value and turns
// values that become empty into nil, so downstream presence checks and joins
// see one consistent missing marker.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			if s, ok := v.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					r[k] = nil
					continue
				}
				r[k] = s
			}
		}
	}
	return in
}
