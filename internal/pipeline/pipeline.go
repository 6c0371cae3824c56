// Package pipeline runs one release end to end: locate and parse the three
// input tables, normalize their columns, derive date fields, link casualties
// to vehicles and collisions, project the tidy schema, and hand the result to
// the configured sink.
//
// The run is batch and sequential by design: everything is in memory before
// the first join, and a failure at any stage aborts the whole run. The only
// concurrency is reading the three independent input files in parallel.
// Memory is proportional to the three inputs plus the joined result; callers
// with larger-than-memory releases should treat that as a known scaling
// limit.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"stats19/internal/config"
	"stats19/internal/datasource/file"
	"stats19/internal/join"
	"stats19/internal/metrics"
	csvparser "stats19/internal/parser/csv"
	"stats19/internal/schema"
	"stats19/internal/sink"
	"stats19/internal/table"
	"stats19/internal/tidy"
	"stats19/internal/transformer"
	"stats19/internal/transformer/builtin"
)

// Composite key columns linking the three tables.
var (
	vehicleKey   = []string{"accident_index", "vehicle_reference"}
	collisionKey = []string{"accident_index"}
)

// Summary describes a completed run.
type Summary struct {
	RunID   string
	Job     string
	Output  string // sink location (file path or DSN table)
	Rows    int    // tidy fact rows written
	Columns int    // projected column count

	Skipped            int // malformed input rows dropped by the parser
	UnmatchedVehicle   int // casualties with no vehicle-side match
	UnmatchedCollision int // casualties with no collision-side match

	Elapsed time.Duration
}

// Run executes the pipeline described by cfg and returns a Summary. Structural
// failures (missing collision file under either accepted name, unreadable
// input, missing key columns after the join, sink errors) abort the run;
// data-level irregularities are absorbed and surface only as counts.
func Run(ctx context.Context, cfg config.Pipeline) (Summary, error) {
	start := time.Now()
	sum := Summary{
		RunID: uuid.NewString(),
		Job:   cfg.Job,
	}
	log.Printf("run %s: job=%s source=%s sink=%s", sum.RunID, cfg.Job, cfg.Source.Dir, cfg.Sink.Kind)

	collisions, vehicles, casualties, skipped, err := ingest(ctx, cfg)
	metrics.RecordStep(cfg.Job, "ingest", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.Skipped = skipped
	metrics.RecordRows(cfg.Job, "collisions", collisions.Len())
	metrics.RecordRows(cfg.Job, "vehicles", vehicles.Len())
	metrics.RecordRows(cfg.Job, "casualties", casualties.Len())
	metrics.RecordRows(cfg.Job, "skipped", skipped)

	// Column names first, then values: every downstream lookup assumes the
	// trim/lower/underscore form.
	collisions = schema.Normalize(collisions)
	vehicles = schema.Normalize(vehicles)
	casualties = schema.Normalize(casualties)

	cat := cfg.Catalog()

	// Date handling lives on the collision table. A release without a
	// resolvable date column simply has no date, year, or month downstream.
	chain := transformer.Chain{builtin.Normalize{}}
	if f, ok := cat.Lookup("date"); ok {
		if dateCol, ok := schema.ResolveField(collisions, f); ok {
			chain = append(chain, builtin.DeriveDate{Field: dateCol})
			collisions.AddColumn(builtin.YearColumn)
			collisions.AddColumn(builtin.MonthColumn)
		}
	}
	collisions.Rows = chain.Apply(collisions.Rows)
	vehicles.Rows = builtin.Normalize{}.Apply(vehicles.Rows)
	casualties.Rows = builtin.Normalize{}.Apply(casualties.Rows)

	joinStart := time.Now()
	linked, unmatchedVeh := join.LeftJoin(casualties, vehicles, vehicleKey, "_cas", "_veh")
	joined, unmatchedAcc := join.LeftJoin(linked, collisions, collisionKey, "_cas", "_acc")
	metrics.RecordStep(cfg.Job, "join", nil, time.Since(joinStart))
	sum.UnmatchedVehicle = unmatchedVeh
	sum.UnmatchedCollision = unmatchedAcc
	metrics.RecordRows(cfg.Job, "unmatched_vehicle", unmatchedVeh)
	metrics.RecordRows(cfg.Job, "unmatched_collision", unmatchedAcc)
	if unmatchedVeh > 0 {
		// Expected for pedestrians and other unlinked casualties.
		log.Printf("run %s: %d casualties have no vehicle record", sum.RunID, unmatchedVeh)
	}
	if unmatchedAcc > 0 {
		log.Printf("run %s: %d casualties have no collision record", sum.RunID, unmatchedAcc)
	}

	projStart := time.Now()
	fact, err := tidy.Project(joined, cat)
	metrics.RecordStep(cfg.Job, "project", err, time.Since(projStart))
	if err != nil {
		return sum, fmt.Errorf("project: %w", err)
	}

	writeStart := time.Now()
	written, err := write(ctx, cfg.Sink, fact)
	metrics.RecordStep(cfg.Job, "write", err, time.Since(writeStart))
	if err != nil {
		return sum, fmt.Errorf("write: %w", err)
	}
	metrics.RecordRows(cfg.Job, "written", int(written))

	sum.Rows = int(written)
	sum.Columns = len(fact.Columns)
	sum.Output = outputLocation(cfg.Sink)
	sum.Elapsed = time.Since(start)
	return sum, nil
}

// ingest locates and parses the three input tables. The files are independent
// and are read concurrently; the rest of the run stays sequential.
func ingest(ctx context.Context, cfg config.Pipeline) (collisions, vehicles, casualties *table.Table, skipped int, err error) {
	collisionPath, err := file.FirstExisting(cfg.Source.Dir, cfg.Source.CollisionFiles...)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("collision table: %w", err)
	}
	vehiclePath, err := file.FirstExisting(cfg.Source.Dir, cfg.Source.VehicleFile)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("vehicle table: %w", err)
	}
	casualtyPath, err := file.FirstExisting(cfg.Source.Dir, cfg.Source.CasualtyFile)
	if err != nil {
		return nil, nil, nil, 0, fmt.Errorf("casualty table: %w", err)
	}

	opt := csvparser.Options{
		Comma:     cfg.Parser.Options.Rune("comma", ','),
		TrimSpace: cfg.Parser.Options.Bool("trim_space", true),
		Encoding:  cfg.Parser.Options.String("encoding", ""),
	}

	tables := make([]*table.Table, 3)
	skips := make([]int, 3)
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range []string{collisionPath, vehiclePath, casualtyPath} {
		g.Go(func() error {
			t, n, err := parseFile(gctx, path, opt)
			if err != nil {
				return err
			}
			tables[i], skips[i] = t, n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, nil, 0, err
	}
	return tables[0], tables[1], tables[2], skips[0] + skips[1] + skips[2], nil
}

func parseFile(ctx context.Context, path string, opt csvparser.Options) (*table.Table, int, error) {
	src := file.NewLocal(path)
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	t, skipped, err := csvparser.NewParser(opt).Parse(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Printf("parsed %s: rows=%d cols=%d skipped=%d", path, t.Len(), len(t.Columns), skipped)
	return t, skipped, nil
}

func write(ctx context.Context, cfg sink.Config, fact *table.Table) (int64, error) {
	s, err := sink.New(ctx, cfg)
	if err != nil {
		return 0, err
	}
	n, err := s.Write(ctx, fact.Columns, fact.Matrix(fact.Columns))
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return n, err
}

func outputLocation(cfg sink.Config) string {
	if cfg.Path != "" {
		return cfg.Path
	}
	return fmt.Sprintf("%s:%s", cfg.Kind, cfg.Table)
}
