// internal/metrics/metrics.go
//
// Package metrics records run statistics into a private Prometheus registry
// and writes them in the node_exporter textfile format.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"repsim/internal/engine"
)

const namespace = "repsim"

// Recorder is not safe for concurrent Observe calls; the engine observer
// runs on a single goroutine.
type Recorder struct {
	reg *prometheus.Registry

	iterations prometheus.Counter
	origins    prometheus.Counter
	merges     prometheus.Counter
	placed     prometheus.Histogram

	replicated prometheus.Gauge
	forks      prometheus.Gauge
	quota      prometheus.Gauge
	warmup     prometheus.Gauge
	elapsed    prometheus.Gauge
	complete   prometheus.Gauge
}

// New registers the run collectors on a fresh registry. layout is attached
// as a constant label.
func New(layout string) *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	labels := prometheus.Labels{"layout": layout}

	return &Recorder{
		reg: reg,
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "iterations_total", ConstLabels: labels,
			Help: "Replicating (S phase) iterations executed.",
		}),
		origins: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "origins_fired_total", ConstLabels: labels,
			Help: "Origins placed on the track.",
		}),
		merges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "merges_total", ConstLabels: labels,
			Help: "Replicated segments joined by converging forks.",
		}),
		placed: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "origins_per_iteration", ConstLabels: labels,
			Help:    "Origins placed in a single iteration.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256},
		}),
		replicated: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "replicated_fraction", ConstLabels: labels,
			Help: "Fraction of the genome replicated after the last iteration.",
		}),
		forks: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_forks", ConstLabels: labels,
			Help: "Fork tips bordering an unreplicated gap.",
		}),
		quota: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "fork_quota", ConstLabels: labels,
			Help: "Remaining fork budget.",
		}),
		warmup: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "warmup_draws", ConstLabels: labels,
			Help: "Draws consumed by the G phase gate.",
		}),
		elapsed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds", ConstLabels: labels,
			Help: "Wall time of the run.",
		}),
		complete: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "complete", ConstLabels: labels,
			Help: "1 if the track finished replicating.",
		}),
	}
}

// Registry exposes the underlying registry (tests, custom exporters).
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe folds one iteration into the collectors.
func (r *Recorder) Observe(st engine.IterationStats) {
	r.iterations.Inc()
	r.origins.Add(float64(st.Placed))
	r.merges.Add(float64(st.Merges))
	r.placed.Observe(float64(st.Placed))

	total := st.Replicated + st.Unreplicated
	if total > 0 {
		r.replicated.Set(float64(st.Replicated) / float64(total))
	}
	r.forks.Set(float64(st.ActiveForks))
	r.quota.Set(float64(st.Quota))
}

// Finish records the run-level values that are only known at the end.
func (r *Recorder) Finish(res engine.Result, elapsed time.Duration) {
	r.warmup.Set(float64(res.WarmupDraws))
	r.elapsed.Set(elapsed.Seconds())
	if res.Complete {
		r.complete.Set(1)
		r.replicated.Set(1)
	} else {
		r.complete.Set(0)
	}
}

// WriteFile writes the registry to path atomically (temp file + rename).
func (r *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
