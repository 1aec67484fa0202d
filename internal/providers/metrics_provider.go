package providers

import (
	"commitblock/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncCycles(outcome string)
	ObserveQueryDuration(duration time.Duration)
	SetProgress(progress uint32)
	IncHostsWrites(op string)
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cyclesTotal     *prometheus.CounterVec
	queryDuration   prometheus.Histogram
	progress        prometheus.Gauge
	hostsWrites     *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncCycles(outcome string) {
	m.cyclesTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObserveQueryDuration(duration time.Duration) {
	m.queryDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) SetProgress(progress uint32) {
	m.progress.Set(float64(progress))
}

func (m *MetricsProvider) IncHostsWrites(op string) {
	m.hostsWrites.WithLabelValues(op).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "commitblock_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "commitblock_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "commitblock_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "commitblock_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		cyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "commitblock_cycles_total",
			Help: "Threshold engine cycles by outcome",
		}, []string{"outcome"}),

		queryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "commitblock_contribution_query_duration_seconds",
			Help:    "Duration of contribution count queries in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		progress: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "commitblock_progress_percent",
			Help: "Latest reported progress towards the daily goal",
		}),

		hostsWrites: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "commitblock_hosts_writes_total",
			Help: "Hosts file rewrites by operation",
		}, []string{"op"}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncCycles(_ string)                               {}
func (n *noopMetrics) ObserveQueryDuration(_ time.Duration)             {}
func (n *noopMetrics) SetProgress(_ uint32)                             {}
func (n *noopMetrics) IncHostsWrites(_ string)                          {}
