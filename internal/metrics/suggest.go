package metrics

import "github.com/prometheus/client_golang/prometheus"

// Suggestion engine Prometheus metrics.
var (
	SuggestCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "suggest_cache_total",
			Help:      "Suggestion cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	SuggestPathTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "typeahead",
			Name:      "suggest_path_total",
			Help:      "Suggestion requests by resolution path",
		},
		[]string{"path"}, // "trending" / "rich" / "simplified" / "static"
	)

	SuggestCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "typeahead",
			Name:      "suggest_cache_entries",
			Help:      "Current number of cached suggestion lists",
		},
	)
)

// RegisterSuggestMetrics registers the suggestion metrics explicitly (no init()).
func RegisterSuggestMetrics() {
	prometheus.MustRegister(SuggestCacheTotal)
	prometheus.MustRegister(SuggestPathTotal)
	prometheus.MustRegister(SuggestCacheEntries)
}
