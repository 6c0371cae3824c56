package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FirstExisting returns the full path of the first candidate filename that
// exists under dir. Release bundles renamed their collision table over the
// years (Accidents.csv, later Collisions.csv), so callers probe the accepted
// variants in preference order before parsing begins.
//
// When none of the candidates exist the error wraps os.ErrNotExist.
func FirstExisting(dir string, names ...string) (string, error) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("none of %s found in %s: %w", strings.Join(names, ", "), dir, os.ErrNotExist)
}
