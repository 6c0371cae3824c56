// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of issues
// (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "sink.kind", "fields[2]").
// Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// fileSinks are the sink kinds written to a local path rather than a server.
var fileSinks = map[string]bool{"csv": true, "sqlite": true}

// serverSinks are the sink kinds that require a DSN and table.
var serverSinks = map[string]bool{"postgres": true, "mysql": true, "mssql": true}

// ValidatePipeline performs static validation / linting of a Pipeline. It does
// not mutate the pipeline; callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}

	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateFields(p)...)
	issues = append(issues, validateSink(p)...)
	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue
	if strings.TrimSpace(s.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.dir",
			Message:  "source directory must not be empty",
		})
	}
	if len(s.CollisionFiles) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.collision_files",
			Message:  "at least one collision table filename variant is required",
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue
	if comma := p.Options.String("comma", ""); len([]rune(comma)) > 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("delimiter must be a single character, got %q", comma),
		})
	}
	switch enc := strings.ToLower(p.Options.String("encoding", "")); enc {
	case "", "utf-8", "utf8", "windows-1252", "cp1252", "latin-1", "iso-8859-1":
	default:
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "parser.options.encoding",
			Message:  fmt.Sprintf("unrecognized encoding %q; input will be read as UTF-8", enc),
		})
	}
	return issues
}

func validateFields(p Pipeline) []Issue {
	var issues []Issue
	if len(p.Fields) == 0 {
		return nil
	}
	seen := map[string]bool{}
	hasKey := map[string]bool{}
	for i, f := range p.Fields {
		if strings.TrimSpace(f.Name) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("fields[%d].name", i),
				Message:  "field name must not be empty",
			})
			continue
		}
		if seen[f.Name] {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("fields[%d]", i),
				Message:  fmt.Sprintf("duplicate field %q", f.Name),
			})
		}
		seen[f.Name] = true
		if f.Required {
			hasKey[f.Name] = true
		}
	}
	for _, key := range []string{"accident_index", "vehicle_reference"} {
		if !hasKey[key] {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "fields",
				Message:  fmt.Sprintf("catalog override does not mark %q required; join keys should be required", key),
			})
		}
	}
	return issues
}

func validateSink(p Pipeline) []Issue {
	var issues []Issue
	s := p.Sink
	switch {
	case fileSinks[s.Kind]:
		if s.Path == "" && s.DSN == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.path",
				Message:  fmt.Sprintf("sink kind %q requires a path", s.Kind),
			})
		}
		if s.Kind == "sqlite" && strings.TrimSpace(s.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.table",
				Message:  "sqlite sink requires a table name",
			})
		}
	case serverSinks[s.Kind]:
		if strings.TrimSpace(s.DSN) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.dsn",
				Message:  fmt.Sprintf("sink kind %q requires a DSN", s.Kind),
			})
		}
		if strings.TrimSpace(s.Table) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.table",
				Message:  fmt.Sprintf("sink kind %q requires a table name", s.Kind),
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.kind",
			Message:  fmt.Sprintf("unknown sink kind %q", s.Kind),
		})
	}
	return issues
}
