// Package metrics records the outcome of a filtering run as Prometheus metrics, to be picked up
// by a textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/ubuntu/decorate"
)

const namespace = "hrfilter"

// Recorder holds the metrics of a single run.
type Recorder struct {
	reg *prometheus.Registry

	records     prometheus.Gauge
	kept        prometheus.Gauge
	dropped     prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
}

// New returns a Recorder backed by its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of records read from the input.",
		}),
		kept: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_kept",
			Help:      "Number of records ending before or at the cutoff.",
		}),
		dropped: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_dropped",
			Help:      "Number of records ending after the cutoff.",
		}),
		duration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last run.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}
}

// Observe records a successful run which read records and kept some of them.
func (r *Recorder) Observe(records, kept int, took time.Duration, at time.Time) {
	r.records.Set(float64(records))
	r.kept.Set(float64(kept))
	r.dropped.Set(float64(records - kept))
	r.duration.Set(took.Seconds())
	r.lastSuccess.Set(float64(at.Unix()))
}

// Gatherer returns the registry holding the metrics.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes the metrics to path in the Prometheus text format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) (err error) {
	defer decorate.OnError(&err, "could not write metrics to %q", path)

	return prometheus.WriteToTextfile(path, r.reg)
}
