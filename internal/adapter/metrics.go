package adapter

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	m "github.com/mouse-blink/ngstyle/internal/model"
)

// Metrics records check runs.
type Metrics interface {
	ObserveRun(report m.Report, elapsed time.Duration)
	// WriteTextfile writes the metrics in the text exposition format, for
	// the node exporter textfile collector.
	WriteTextfile(path m.Path) error
}

// PrometheusMetrics keeps metrics in a private prometheus registry.
type PrometheusMetrics struct {
	registry    *prometheus.Registry
	runs        prometheus.Counter
	files       prometheus.Counter
	violations  *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
	lastRun     prometheus.Gauge
}

// NewPrometheusMetrics creates and registers the ngstyle metrics.
func NewPrometheusMetrics() *PrometheusMetrics {
	pm := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ngstyle",
			Name:      "runs_total",
			Help:      "Completed check runs.",
		}),
		files: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ngstyle",
			Name:      "files_checked_total",
			Help:      "Source files checked.",
		}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ngstyle",
			Name:      "violations_total",
			Help:      "Style violations found, by rule and severity.",
		}, []string{"rule", "severity"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ngstyle",
			Name:      "diagnostics_total",
			Help:      "Recovered internal errors, by phase.",
		}, []string{"phase"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ngstyle",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a check run.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ngstyle",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last completed run.",
		}),
	}

	pm.registry.MustRegister(pm.runs, pm.files, pm.violations, pm.diagnostics, pm.duration, pm.lastRun)

	return pm
}

// Registry exposes the underlying registry.
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// ObserveRun implements Metrics.
func (pm *PrometheusMetrics) ObserveRun(report m.Report, elapsed time.Duration) {
	pm.runs.Inc()
	pm.files.Add(float64(report.Files))
	pm.duration.Observe(elapsed.Seconds())
	pm.lastRun.SetToCurrentTime()

	for _, v := range report.Violations {
		severity := v.Severity
		if severity == "" {
			severity = m.SeverityError
		}

		pm.violations.WithLabelValues(v.RuleID, string(severity)).Inc()
	}

	for _, d := range report.Diagnostics {
		pm.diagnostics.WithLabelValues(string(d.Phase)).Inc()
	}
}

// WriteTextfile implements Metrics.
func (pm *PrometheusMetrics) WriteTextfile(path m.Path) error {
	if err := prometheus.WriteToTextfile(string(path), pm.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}
