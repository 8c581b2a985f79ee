package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findex",
			Name:      "searches_total",
			Help:      "Total number of search calls",
		},
		[]string{"status"}, // "ok" / "validation_error" / "parse_error" / "error"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "findex",
			Name:      "search_duration_seconds",
			Help:      "Search pipeline duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"fuzzy"}, // "on" / "off"
	)

	ResultCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findex",
			Name:      "result_cache_total",
			Help:      "Result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DatasetRecords = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "findex",
			Name:      "dataset_records",
			Help:      "Dataset sizes observed per search",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 5),
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ResultCacheTotal)
	prometheus.MustRegister(DatasetRecords)
	searchMetricsRegistered = true
}
