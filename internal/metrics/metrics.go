// Package metrics holds the Prometheus collectors for the analysis pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wedsum"

// Metrics is safe to use through a nil pointer; every observation is then
// a no-op.
type Metrics struct {
	OutcomesTotal  *prometheus.CounterVec
	UploadBytes    prometheus.Histogram
	MessagesParsed prometheus.Histogram
	ParseSeconds   *prometheus.HistogramVec
	ModelSeconds   *prometheus.HistogramVec
}

// New registers the pipeline metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outcomes_total",
				Help:      "Pipeline outcomes by operation, status and failure reason",
			},
			[]string{"operation", "status", "reason"},
		),
		UploadBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_bytes",
				Help:      "Size of accepted uploads",
				Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
			},
		),
		MessagesParsed: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "messages_parsed",
				Help:      "Messages extracted per transcript",
				Buckets:   prometheus.ExponentialBuckets(10, 4, 7),
			},
		),
		ParseSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "parse_seconds",
				Help:      "Transcript parse duration",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		ModelSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_seconds",
				Help:      "Model call latency",
				Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"provider", "status"},
		),
	}
}

func (m *Metrics) ObserveOutcome(operation, status, reason string) {
	if m == nil {
		return
	}
	m.OutcomesTotal.WithLabelValues(operation, status, reason).Inc()
}

func (m *Metrics) ObserveUpload(size int64) {
	if m == nil {
		return
	}
	m.UploadBytes.Observe(float64(size))
}

func (m *Metrics) ObserveParse(mode string, messages int, d time.Duration) {
	if m == nil {
		return
	}
	m.MessagesParsed.Observe(float64(messages))
	m.ParseSeconds.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) ObserveModel(provider string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.ModelSeconds.WithLabelValues(provider, status).Observe(d.Seconds())
}
