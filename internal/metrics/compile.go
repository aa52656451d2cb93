package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	compileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumed",
			Subsystem: "compile",
			Name:      "runs_total",
			Help:      "Total number of compile runs by final status.",
		},
		[]string{"status"},
	)

	compileDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumed",
			Subsystem: "compile",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of compile runs.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	compileInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "resumed",
			Subsystem: "compile",
			Name:      "in_progress",
			Help:      "Whether a compile run is currently active.",
		},
	)
)

// CompileStarted marks a compile run as active.
func CompileStarted() {
	compileInProgress.Inc()
}

// CompileFinished records the outcome of a compile run.
func CompileFinished(status string, elapsed time.Duration) {
	compileInProgress.Dec()
	compileTotal.WithLabelValues(status).Inc()
	compileDuration.Observe(elapsed.Seconds())
}
