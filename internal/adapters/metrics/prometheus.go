// Package metrics exports report outcomes in Prometheus format.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
)

const (
	namespace = "kanso"
	subsystem = "report"

	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// PrometheusRecorder keeps the latest report's values as gauges on a
// private registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	failures      *prometheus.CounterVec
	taskFrequency *prometheus.GaugeVec
	categoryRatio *prometheus.GaugeVec
	dailyScore    prometheus.Gauge
	unknownTokens prometheus.Gauge

	mu sync.Mutex
}

func NewPrometheusRecorder(registry *prometheus.Registry) *PrometheusRecorder {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	r := &PrometheusRecorder{registry: registry}

	r.runs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "runs_total",
			Help:      "Total number of report runs",
		},
		[]string{"outcome"},
	)

	r.failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
			Help:      "Failed report runs by pipeline stage",
		},
		[]string{"stage"},
	)

	r.taskFrequency = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_frequency_percent",
			Help:      "Completion percentage per task in the latest report",
		},
		[]string{"task"},
	)

	r.categoryRatio = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "category_ratio",
			Help:      "Normalised completion per category on the last reported day",
		},
		[]string{"category"},
	)

	r.dailyScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "daily_score",
			Help:      "Weighted score of the last reported day",
		},
	)

	r.unknownTokens = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "unknown_tokens",
			Help:      "Unrecognised cells in the latest report",
		},
	)

	registry.MustRegister(r.runs, r.failures, r.taskFrequency, r.categoryRatio, r.dailyScore, r.unknownTokens)

	return r
}

func (r *PrometheusRecorder) RecordReport(report *domain.Report) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs.WithLabelValues(OutcomeSuccess).Inc()

	if report.Table != nil {
		r.unknownTokens.Set(float64(report.Table.UnknownTokens))
	}

	r.taskFrequency.Reset()
	if report.Frequency != nil {
		for _, t := range report.Frequency.Tasks {
			r.taskFrequency.WithLabelValues(t.Task).Set(t.Percent)
		}
	}

	// Missing categories are not exported; absence is not zero.
	r.categoryRatio.Reset()
	if report.Groups != nil && len(report.Groups.Days) > 0 {
		last := len(report.Groups.Days) - 1
		for i, c := range report.Groups.Categories {
			if v := report.Groups.Values[i][last]; v.Valid {
				r.categoryRatio.WithLabelValues(c).Set(v.Value)
			}
		}
	}

	if report.Score != nil && len(report.Score.Scores) > 0 {
		r.dailyScore.Set(report.Score.Scores[len(report.Score.Scores)-1])
	}
}

func (r *PrometheusRecorder) RecordFailure(stage string) {
	r.runs.WithLabelValues(OutcomeError).Inc()
	r.failures.WithLabelValues(stage).Inc()
}

func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
