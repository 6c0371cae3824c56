package metrics

import (
	"errors"
	"testing"
	"time"
)

type recordingBackend struct {
	counters   map[string]float64
	histograms map[string][]float64
	labels     map[string]Labels
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		counters:   map[string]float64{},
		histograms: map[string][]float64{},
		labels:     map[string]Labels{},
	}
}

func (r *recordingBackend) IncCounter(name string, delta float64, labels Labels) {
	r.counters[name] += delta
	r.labels[name] = labels
}

func (r *recordingBackend) ObserveHistogram(name string, value float64, labels Labels) {
	r.histograms[name] = append(r.histograms[name], value)
}

func (r *recordingBackend) Flush() error { return nil }

func TestRecordStep(t *testing.T) {
	rec := newRecordingBackend()
	prev := backend
	SetBackend(rec)
	defer func() { backend = prev }()

	RecordStep("stats19_tidy", "join", nil, 250*time.Millisecond)

	if rec.counters["tidy_step_total"] != 1 {
		t.Fatalf("step counter = %v", rec.counters["tidy_step_total"])
	}
	lbls := rec.labels["tidy_step_total"]
	if lbls["job"] != "stats19_tidy" || lbls["step"] != "join" || lbls["status"] != "success" {
		t.Fatalf("labels = %v", lbls)
	}
	if got := rec.histograms["tidy_step_duration_seconds"]; len(got) != 1 || got[0] != 0.25 {
		t.Fatalf("duration = %v", got)
	}

	RecordStep("stats19_tidy", "write", errors.New("boom"), time.Second)
	if rec.labels["tidy_step_total"]["status"] != "failure" {
		t.Fatal("failed step should carry status=failure")
	}
}

func TestRecordRows(t *testing.T) {
	rec := newRecordingBackend()
	prev := backend
	SetBackend(rec)
	defer func() { backend = prev }()

	RecordRows("stats19_tidy", "casualties", 120)
	RecordRows("stats19_tidy", "casualties", 30)

	if rec.counters["tidy_rows_total"] != 150 {
		t.Fatalf("rows counter = %v", rec.counters["tidy_rows_total"])
	}
	if rec.labels["tidy_rows_total"]["kind"] != "casualties" {
		t.Fatalf("labels = %v", rec.labels["tidy_rows_total"])
	}
}

func TestSetBackendNil(t *testing.T) {
	prev := backend
	defer func() { backend = prev }()

	rec := newRecordingBackend()
	SetBackend(rec)
	SetBackend(nil)
	RecordRows("j", "k", 1)
	if rec.counters["tidy_rows_total"] != 1 {
		t.Fatal("nil must not replace the installed backend")
	}
}
