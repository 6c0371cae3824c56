// Package metrics records run-level counters and step timings behind a
// pluggable backend. The pipeline calls the package-level helpers
// unconditionally; when no backend has been installed they hit a no-op, so a
// local run needs no metrics infrastructure at all. Concrete systems live in
// subpackages (prompush) and register themselves via SetBackend, keeping the
// rest of the codebase free of metric-system imports, the same shape the sink
// factory uses for output backends.
package metrics

import "time"

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is what a concrete metrics system must implement: counters and
// duration observations, plus a Flush for push-style delivery.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush delivers buffered metrics for backends that batch (Pushgateway).
	Flush() error
}

// nopBackend is used by default so metrics are optional.
type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing backend.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep is a convenience for the common pattern:
// measure latency + success/failure per pipeline step.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter("tidy_step_total", 1, lbls)
	backend.ObserveHistogram("tidy_step_duration_seconds", d.Seconds(), lbls)
}

// RecordRows adds n to the row-level counter for the given job and kind.
//
// Typical kinds mirror the run summary fields:
//   - "collisions", "vehicles", "casualties": parsed input rows per table
//   - "skipped":              malformed input rows dropped by the parser
//   - "unmatched_vehicle":    casualties with no vehicle-side match
//   - "unmatched_collision":  casualties with no collision-side match
//   - "written":              tidy fact rows delivered to the sink
func RecordRows(job, kind string, n int) {
	backend.IncCounter("tidy_rows_total", float64(n), Labels{"job": job, "kind": kind})
}
