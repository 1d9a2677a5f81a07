package metrics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/yardplan/core/metrics"
)

// PromRecorder records pipeline runs in Prometheus metrics.
type PromRecorder struct {
	stages      *prometheus.HistogramVec
	stageErrors *prometheus.CounterVec
	movements   prometheus.Gauge
	trains      prometheus.Gauge
	tracks      prometheus.Gauge
	constraints *prometheus.GaugeVec
	runs        *prometheus.CounterVec
	gatherer    prometheus.Gatherer
}

// NewPromRecorder registers the pipeline metrics on a fresh registry.
func NewPromRecorder() (*PromRecorder, error) {
	reg := prometheus.NewRegistry()
	return NewPromRecorderWithRegistry(reg, reg)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer, a nil
// gatherer to the global gatherer.
func NewPromRecorderWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r := &PromRecorder{
		stages: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "yardplan_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yardplan_stage_errors_total",
			Help: "Number of failed pipeline stages",
		}, []string{"stage"}),
		movements: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "yardplan_movements",
			Help: "Movements in the last parsed plan",
		}),
		trains: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "yardplan_trains",
			Help: "Trains in the last parsed plan",
		}),
		tracks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "yardplan_tracks",
			Help: "Tracks in the last parsed plan",
		}),
		constraints: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "yardplan_constraint_pairs",
			Help: "Constraint pairs in the last derived model",
		}, []string{"kind"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "yardplan_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"status"}),
		gatherer: gatherer,
	}

	var err error
	if r.stages, err = register(reg, r.stages); err != nil {
		return nil, err
	}
	if r.stageErrors, err = register(reg, r.stageErrors); err != nil {
		return nil, err
	}
	if r.movements, err = register(reg, r.movements); err != nil {
		return nil, err
	}
	if r.trains, err = register(reg, r.trains); err != nil {
		return nil, err
	}
	if r.tracks, err = register(reg, r.tracks); err != nil {
		return nil, err
	}
	if r.constraints, err = register(reg, r.constraints); err != nil {
		return nil, err
	}
	if r.runs, err = register(reg, r.runs); err != nil {
		return nil, err
	}
	return r, nil
}

// register returns the already registered collector when one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordStage observes the stage duration and counts failures.
func (r *PromRecorder) RecordStage(stage string, d time.Duration, err error) {
	r.stages.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		r.stageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordModel sets the model size gauges.
func (r *PromRecorder) RecordModel(s coremetrics.ModelStats) {
	r.movements.Set(float64(s.Movements))
	r.trains.Set(float64(s.Trains))
	r.tracks.Set(float64(s.Tracks))
	for kind, n := range s.Constraints {
		r.constraints.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordRun counts a finished run.
func (r *PromRecorder) RecordRun(status string) {
	r.runs.WithLabelValues(status).Inc()
}

// WriteTextfile dumps the gathered metrics in text exposition format, e.g.
// for the node exporter textfile collector.
func (r *PromRecorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := prometheus.WriteToTextfile(path, r.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
