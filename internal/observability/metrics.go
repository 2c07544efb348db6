// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Screening metrics
	RunsStarted      prometheus.Counter
	RunsFinished     prometheus.Counter
	WalletsSubmitted prometheus.Counter
	WalletsQualified prometheus.Counter
	BatchesProcessed prometheus.Counter
	JobErrors        *prometheus.CounterVec

	// Analytics API metrics
	BatchDuration prometheus.Histogram
	PollsPerBatch prometheus.Histogram

	// Transport metrics
	MessagesReceived prometheus.Counter
	MessagesSent     prometheus.Counter
	SendErrors       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_scout"
	}

	return &Metrics{
		RunsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "runs_started_total",
			Help:      "Total number of screening runs started",
		}),
		RunsFinished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "runs_finished_total",
			Help:      "Total number of screening runs finished",
		}),
		WalletsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "wallets_submitted_total",
			Help:      "Total number of wallet addresses submitted for analysis",
		}),
		WalletsQualified: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "wallets_qualified_total",
			Help:      "Total number of wallets that met the filter criteria",
		}),
		BatchesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "batches_processed_total",
			Help:      "Total number of analysis batches processed",
		}),
		JobErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screening",
			Name:      "job_errors_total",
			Help:      "Total number of failed analysis jobs by error kind",
		}, []string{"kind"}),

		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "batch_duration_seconds",
			Help:      "Wall-clock duration of one batch from submit to terminal status",
			Buckets:   []float64{15, 30, 60, 120, 300, 600, 1200},
		}),
		PollsPerBatch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analytics",
			Name:      "polls_per_batch",
			Help:      "Number of status polls needed to finish one batch",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),

		MessagesReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "messages_received_total",
			Help:      "Total number of inbound messages",
		}),
		MessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "messages_sent_total",
			Help:      "Total number of outbound messages",
		}),
		SendErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "send_errors_total",
			Help:      "Total number of failed outbound deliveries",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRunStarted records the start of a screening run.
func RecordRunStarted(wallets int) {
	DefaultMetrics.RunsStarted.Inc()
	DefaultMetrics.WalletsSubmitted.Add(float64(wallets))
}

// RecordRunFinished records a completed screening run.
func RecordRunFinished(qualified int) {
	DefaultMetrics.RunsFinished.Inc()
	DefaultMetrics.WalletsQualified.Add(float64(qualified))
}

// RecordBatch records one terminal batch with its duration and poll count.
func RecordBatch(seconds float64, polls int) {
	DefaultMetrics.BatchesProcessed.Inc()
	DefaultMetrics.BatchDuration.Observe(seconds)
	DefaultMetrics.PollsPerBatch.Observe(float64(polls))
}

// RecordJobError records a failed analysis job by error kind.
func RecordJobError(kind string) {
	DefaultMetrics.JobErrors.WithLabelValues(kind).Inc()
}

// RecordMessageReceived increments the inbound message counter.
func RecordMessageReceived() {
	DefaultMetrics.MessagesReceived.Inc()
}

// RecordMessageSent records one outbound delivery attempt.
func RecordMessageSent(err error) {
	DefaultMetrics.MessagesSent.Inc()
	if err != nil {
		DefaultMetrics.SendErrors.Inc()
	}
}
