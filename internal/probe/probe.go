// Package probe inspects a release directory before a run: which filename
// variant the collision table uses, which columns each table carries, how
// each header normalizes, and which logical field (if any) it resolves to.
//
// All inference is best-effort and side-effect free; the probe exists so a
// new release's schema drift is visible before anyone edits the field
// catalog.
package probe

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"stats19/internal/config"
	"stats19/internal/datasource/file"
	csvparser "stats19/internal/parser/csv"
	"stats19/internal/schema"
	"stats19/internal/table"
)

// Report is the probe result for one release directory.
type Report struct {
	Dir    string
	Tables []TableReport
}

// TableReport describes one input table's schema.
type TableReport struct {
	Role    string // "collisions", "vehicles", "casualties"
	Path    string
	Rows    int
	Columns []ColumnReport
}

// ColumnReport maps one raw header to its normalized form, a suggested
// identifier-safe name, and the logical field it resolves to (empty when the
// column is unknown to the catalog).
type ColumnReport struct {
	Header     string
	Normalized string
	Suggested  string
	Field      string
}

// Inspect parses the headers (and rows, for counts) of the three tables named
// by cfg and resolves every column against the effective field catalog.
func Inspect(ctx context.Context, cfg config.Pipeline) (Report, error) {
	rep := Report{Dir: cfg.Source.Dir}

	collisionPath, err := file.FirstExisting(cfg.Source.Dir, cfg.Source.CollisionFiles...)
	if err != nil {
		return rep, fmt.Errorf("collision table: %w", err)
	}
	inputs := []struct {
		role string
		path string
	}{
		{"collisions", collisionPath},
	}
	for _, in := range []struct {
		role string
		name string
	}{
		{"vehicles", cfg.Source.VehicleFile},
		{"casualties", cfg.Source.CasualtyFile},
	} {
		p, err := file.FirstExisting(cfg.Source.Dir, in.name)
		if err != nil {
			return rep, fmt.Errorf("%s table: %w", in.role, err)
		}
		inputs = append(inputs, struct {
			role string
			path string
		}{in.role, p})
	}

	opt := csvparser.Options{
		Comma:     cfg.Parser.Options.Rune("comma", ','),
		TrimSpace: cfg.Parser.Options.Bool("trim_space", true),
		Encoding:  cfg.Parser.Options.String("encoding", ""),
	}
	cat := cfg.Catalog()

	for _, in := range inputs {
		src := file.NewLocal(in.path)
		rc, err := src.Open(ctx)
		if err != nil {
			return rep, err
		}
		t, _, err := csvparser.NewParser(opt).Parse(rc)
		rc.Close()
		if err != nil {
			return rep, fmt.Errorf("parse %s: %w", in.path, err)
		}

		norm := schema.Normalize(t)
		tr := TableReport{Role: in.role, Path: in.path, Rows: t.Len()}
		for i, raw := range t.Columns {
			tr.Columns = append(tr.Columns, ColumnReport{
				Header:     raw,
				Normalized: norm.Columns[i],
				Suggested:  suggestFieldName(raw),
				Field:      logicalField(cat, norm, norm.Columns[i]),
			})
		}
		rep.Tables = append(rep.Tables, tr)
	}
	return rep, nil
}

// logicalField returns the catalog field that the given normalized column
// satisfies, honoring alias priority: a lower-priority alias reports nothing
// when a higher-priority alias is also present in the same table.
func logicalField(cat schema.Catalog, t *table.Table, col string) string {
	for _, f := range cat {
		if resolved, ok := schema.Resolve(t, f.Candidates()); ok && resolved == col {
			return f.Name
		}
	}
	return ""
}

// WriteText renders the report as aligned text, one block per table.
func (r Report) WriteText(w io.Writer) {
	fmt.Fprintf(w, "release: %s\n", r.Dir)
	for _, t := range r.Tables {
		fmt.Fprintf(w, "\n%s (%s, %d rows)\n", t.Role, t.Path, t.Rows)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "header\tnormalized\tsuggested\tfield")
		for _, c := range t.Columns {
			field := c.Field
			if field == "" {
				field = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Header, c.Normalized, c.Suggested, field)
		}
		tw.Flush()
	}
}

// Unknown returns, per table role, the normalized columns that resolve to no
// catalog field. These are candidates for new aliases when a release drifts.
func (r Report) Unknown() map[string][]string {
	out := map[string][]string{}
	for _, t := range r.Tables {
		for _, c := range t.Columns {
			if c.Field == "" {
				out[t.Role] = append(out[t.Role], c.Normalized)
			}
		}
	}
	for role, cols := range out {
		out[role] = dedupe(cols)
	}
	return out
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
