// Package config defines the canonical, JSON-serializable configuration model
// for a tidy-table run. It is intentionally small, explicit, and dependency-
// free so that pipeline files can be loaded from disk and passed through the
// program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure of pipeline files.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access.
//
// Example (trimmed):
//
//	{
//	  "job":    "stats19_2023",
//	  "source": { "dir": "data/raw/dft_road_safety_last_5_years" },
//	  "parser": { "options": { "trim_space": true, "encoding": "windows-1252" } },
//	  "sink":   { "kind": "csv", "path": "data/processed/casualty_joined.csv" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"stats19/internal/schema"
	"stats19/internal/sink"
)

// Pipeline describes one full run over a single release.
type Pipeline struct {
	// Job names the run for logs and metrics labeling.
	Job string `json:"job"`

	// Source locates the three input tables.
	Source Source `json:"source"`

	// Parser configures how the delimited files are read.
	Parser Parser `json:"parser"`

	// Fields optionally replaces the built-in logical field catalog, so a new
	// release's alias can be added without a code change. Empty means
	// schema.Default().
	Fields []schema.Field `json:"fields,omitempty"`

	// Sink describes where the tidy fact table is written.
	Sink sink.Config `json:"sink"`
}

// Source locates the release directory and the table filenames within it.
// CollisionFiles is a preference-ordered list because the collision table has
// shipped under more than one name.
type Source struct {
	Dir            string   `json:"dir"`
	CollisionFiles []string `json:"collision_files,omitempty"`
	VehicleFile    string   `json:"vehicle_file,omitempty"`
	CasualtyFile   string   `json:"casualty_file,omitempty"`
}

// Parser wraps the free-form parser options bag. Recognized keys:
// comma (string), trim_space (bool), encoding (string).
type Parser struct {
	Options Options `json:"options"`
}

// Catalog returns the effective field catalog for this pipeline.
func (p Pipeline) Catalog() schema.Catalog {
	if len(p.Fields) > 0 {
		return schema.Catalog(p.Fields)
	}
	return schema.Default()
}

// SetDefaults fills unset fields with the values a bare pipeline file should
// get: the historical DfT filenames and a CSV sink next to the source data.
func (p *Pipeline) SetDefaults() {
	if p.Job == "" {
		p.Job = "stats19_tidy"
	}
	if len(p.Source.CollisionFiles) == 0 {
		p.Source.CollisionFiles = []string{"Accidents.csv", "Collisions.csv"}
	}
	if p.Source.VehicleFile == "" {
		p.Source.VehicleFile = "Vehicles.csv"
	}
	if p.Source.CasualtyFile == "" {
		p.Source.CasualtyFile = "Casualties.csv"
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if p.Sink.Kind == "" {
		p.Sink.Kind = "csv"
	}
	if p.Sink.Kind == "csv" && p.Sink.Path == "" {
		p.Sink.Path = "data/processed/casualty_joined.csv"
	}
}

// Load reads and decodes a pipeline file, then applies defaults.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	p.SetDefaults()
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. This is useful for single-character parser settings such
// as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes the
// need to nil-check Options at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
