package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query Prometheus metrics.
var (
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "places",
			Name:      "query_duration_seconds",
			Help:      "Place query duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"}, // "run" / "count" / "get"
	)

	RecountTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "places",
			Name:      "recount_total",
			Help:      "Count-only re-queries issued after a zero found count",
		},
	)

	DroppedItemsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "places",
			Name:      "dropped_items_total",
			Help:      "Collection items dropped by the read policy",
		},
	)

	PageOutOfRangeTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "places",
			Name:      "page_out_of_range_total",
			Help:      "Collection requests for a page past the last one",
		},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueryDuration)
	prometheus.MustRegister(RecountTotal)
	prometheus.MustRegister(DroppedItemsTotal)
	prometheus.MustRegister(PageOutOfRangeTotal)
	queryMetricsRegistered = true
}
