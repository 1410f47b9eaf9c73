package observability

import (
	"time"

	"github.com/gestaofin/visionario-analytics-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the report pipeline.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	rowsProcessed   prometheus.Counter
	reportsTotal    *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "visionario_request_duration_seconds",
				Help:    "Duration of report operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visionario_external_errors_total",
				Help: "Total errors from the record store.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visionario_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visionario_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		rowsProcessed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "visionario_rows_processed_total",
				Help: "Total raw worksheet rows fed into the pipeline.",
			},
		),
		reportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "visionario_reports_total",
				Help: "Total report computations by outcome.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// AddRowsProcessed counts raw rows handed to the normalizers.
func (m *Metrics) AddRowsProcessed(n int) {
	m.rowsProcessed.Add(float64(n))
}

// IncrReport increments the report counter with an outcome label.
func (m *Metrics) IncrReport(status string) {
	m.reportsTotal.WithLabelValues(status).Inc()
}

// GetReportSnapshot returns a snapshot of pipeline metrics suitable for
// the GET /v1/metrics/reports endpoint.
func (m *Metrics) GetReportSnapshot() *domain.ReportMetrics {
	// Prometheus counters expose cumulative values.
	success := getCounterValue(m.reportsTotal, "success")
	failures := getCounterValue(m.reportsTotal, "error")
	total := success + failures
	cacheHits := getCounterValue(m.cacheHits, "sheet")
	cacheMisses := getCounterValue(m.cacheMisses, "sheet")
	fetchErrors := getCounterValue(m.externalErrors, "sheets")

	errorRate := float64(0)
	cacheHitRate := float64(0)
	if total > 0 {
		errorRate = failures / total
	}
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	rows := &dto.Metric{}
	rowsTotal := float64(0)
	if err := m.rowsProcessed.Write(rows); err == nil && rows.Counter != nil && rows.Counter.Value != nil {
		rowsTotal = *rows.Counter.Value
	}

	return &domain.ReportMetrics{
		TotalReports:  int64(total),
		ErrorRate:     errorRate,
		CacheHitRate:  cacheHitRate,
		FetchErrors:   fetchErrors,
		RowsProcessed: rowsTotal,
		Period:        "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
