package builtin

import (
	"time"

	"stats19/pkg/records"
)

// Derived column names added by DeriveDate.
const (
	YearColumn  = "year"
	MonthColumn = "month"
)

// DayFirstLayouts are the date layouts tried in order by DeriveDate. Ambiguous
// numeric dates are read day-first (31/12/2020 is 31 December), which matches
// the DfT extracts; the ISO form is unambiguous and accepted as well.
var DayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
}

// DeriveDate parses the configured date column in place and derives two
// companion columns: the calendar year (int) and the first day of the value's
// month (time.Time).
//
// Values that fail to parse become nil, as do their derived columns; a bad
// date never fails the run. Callers that could not resolve a date column
// simply don't apply this transformer.
type DeriveDate struct {
	// Field is the resolved source column holding the date.
	Field string

	// Layouts overrides DayFirstLayouts when non-empty.
	Layouts []string
}

func (d DeriveDate) Apply(in []records.Record) []records.Record {
	if d.Field == "" {
		return in
	}
	layouts := d.Layouts
	if len(layouts) == 0 {
		layouts = DayFirstLayouts
	}
	for _, r := range in {
		t, ok := parseDate(r[d.Field], layouts)
		if !ok {
			r[d.Field] = nil
			r[YearColumn] = nil
			r[MonthColumn] = nil
			continue
		}
		r[d.Field] = t
		r[YearColumn] = t.Year()
		r[MonthColumn] = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return in
}

// parseDate tries each layout in order against a string value. Values that
// are already time.Time pass through; anything else is a miss.
func parseDate(v any, layouts []string) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		for _, layout := range layouts {
			if t, err := time.Parse(layout, val); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
