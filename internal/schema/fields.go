package schema

import "stats19/internal/table"

// Field describes one logical column of the tidy output: what it is called,
// which historically-used source names may carry it, and how the projector
// treats it.
//
// Aliases are consulted in order; the first one present in a table wins. An
// empty alias list means the field has only ever had one source name. When
// both alias names appear in the same release (unspecified upstream), the
// first by priority is used and the other is ignored.
type Field struct {
	// Name is the stable logical name exposed to downstream consumers.
	Name string `json:"name"`

	// Aliases lists source column names in resolution priority order.
	Aliases []string `json:"aliases,omitempty"`

	// Required marks fields whose absence after the join is a structural
	// failure (the casualty composite key). Everything else is optional and
	// silently omitted when missing.
	Required bool `json:"required,omitempty"`

	// Canonical forces the resolved source name to be renamed to Name in the
	// projected output (the severity/casualty_severity case).
	Canonical bool `json:"canonical,omitempty"`
}

// Candidates returns the source names to try for this field, in priority
// order.
func (f Field) Candidates() []string {
	if len(f.Aliases) > 0 {
		return f.Aliases
	}
	return []string{f.Name}
}

// Resolve returns the first candidate that exists as a column of t, or
// ("", false) when none does. It is a pure lookup; candidate order is the
// only tie-breaker.
func Resolve(t *table.Table, candidates []string) (string, bool) {
	for _, c := range candidates {
		if t.Has(c) {
			return c, true
		}
	}
	return "", false
}

// ResolveField resolves a single Field against t.
func ResolveField(t *table.Table, f Field) (string, bool) {
	return Resolve(t, f.Candidates())
}

// Catalog is the ordered list of logical fields; slice order is projection
// order.
type Catalog []Field

// Lookup returns the field with the given logical name.
func (c Catalog) Lookup(name string) (Field, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Default is the field catalog for DfT STATS19 releases. New releases that
// rename a column extend an alias list here (or override the catalog from the
// pipeline config) without touching join or projection logic.
func Default() Catalog {
	return Catalog{
		// Casualty composite key.
		{Name: "accident_index", Required: true},
		{Name: "vehicle_reference", Required: true},

		// Outcome. Renamed to "severity" whichever source name carried it.
		{Name: "severity", Aliases: []string{"severity", "casualty_severity"}, Canonical: true},

		// Casualty dimensions.
		{Name: "casualty_class"},
		{Name: "sex_of_casualty"},
		{Name: "age_band_of_casualty"},

		// Vehicle dimensions, reached through the vehicle link.
		{Name: "sex_of_driver"},
		{Name: "age_band_of_driver"},
		{Name: "vehicle_type"},

		// Collision date plus the two fields derived from it.
		{Name: "date", Aliases: []string{"date", "accident_date"}},
		{Name: "year"},
		{Name: "month"},

		// Collision scene dimensions.
		{Name: "light_conditions"},
		{Name: "weather_conditions"},
		{Name: "road_type"},
		{Name: "speed_limit"},
		{Name: "local_authority_(district)"},
		{Name: "police_force"},
		{Name: "number_of_vehicles"},
		{Name: "number_of_casualties"},
		{Name: "longitude"},
		{Name: "latitude"},
	}
}
