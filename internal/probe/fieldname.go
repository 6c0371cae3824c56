package probe

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// suggestFieldName folds a raw header to a safe identifier: lowercase, accents
// stripped, runs of separators collapsed to single underscores, everything
// else dropped. This is deliberately more aggressive than the pipeline's
// column normalizer, which must stay faithful to the source names; the
// suggestion is only a hint for catalog maintenance.
func suggestFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose, remove nonspacing marks (accents), recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevUnderscore = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}
	return strings.Trim(b.String(), "_")
}
