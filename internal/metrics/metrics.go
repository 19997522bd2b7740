// Package metrics exposes mpcalc's operation counters in the Prometheus
// format and reads runtime memory statistics.
package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/mpcalc/internal/mpfr"
)

// Metrics holds the collectors of one mpcalc process. Each instance owns
// its registry, so several can coexist in tests.
type Metrics struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	rangeErrors *prometheus.CounterVec
	mismatches  prometheus.Counter
	activeJobs  prometheus.Gauge
	runDuration *prometheus.HistogramVec
	handler     http.Handler
}

// NewMetrics creates and registers the mpcalc collectors together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mpcalc_operations_total",
			Help: "Arithmetic operations performed, by outcome.",
		}, []string{"op", "mode", "kernel", "result"}),
		rangeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mpcalc_range_errors_total",
			Help: "Results whose exponent left the configured range.",
		}, []string{"op", "kind"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mpcalc_kernel_mismatches_total",
			Help: "Jobs on which two kernels disagreed.",
		}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mpcalc_active_jobs",
			Help: "Jobs currently being evaluated.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mpcalc_run_duration_seconds",
			Help:    "Wall time of batch and verify runs.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"command"}),
	}
	m.registry.MustRegister(
		m.operations, m.rangeErrors, m.mismatches, m.activeJobs, m.runDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
}

// resultLabel names the outcome of an operation.
func resultLabel(t mpfr.Ternary, err error) string {
	switch {
	case err != nil:
		return "error"
	case t > 0:
		return "rounded_up"
	case t < 0:
		return "rounded_down"
	}
	return "exact"
}

// ObserveOperation counts one operation and, for range errors, its kind.
func (m *Metrics) ObserveOperation(op string, mode mpfr.RoundingMode, kernel string, t mpfr.Ternary, err error) {
	m.operations.WithLabelValues(op, mode.String(), kernel, resultLabel(t, err)).Inc()
	var re *mpfr.RangeError
	if errors.As(err, &re) {
		m.rangeErrors.WithLabelValues(op, re.Kind.String()).Inc()
	}
}

// ObserveMismatch counts a job the kernels disagreed on.
func (m *Metrics) ObserveMismatch() { m.mismatches.Inc() }

// ObserveRun records the duration of a batch or verify run.
func (m *Metrics) ObserveRun(command string, d time.Duration) {
	m.runDuration.WithLabelValues(command).Observe(d.Seconds())
}

// IncrementActiveJobs increments the active jobs gauge.
func (m *Metrics) IncrementActiveJobs() { m.activeJobs.Inc() }

// DecrementActiveJobs decrements the active jobs gauge.
func (m *Metrics) DecrementActiveJobs() { m.activeJobs.Dec() }

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// WritePrometheus serves the metrics in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// WriteText writes every metric family in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
