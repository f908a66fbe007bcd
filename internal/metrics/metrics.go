package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentimeter",
		Name:      "analyses_total",
		Help:      "Classified texts by canonical label.",
	}, []string{"label"})

	analysisFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentimeter",
		Name:      "analysis_failures_total",
		Help:      "Texts the model could not classify.",
	})

	inferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "sentimeter",
		Name:      "inference_duration_seconds",
		Help:      "Time spent in a single model forward pass.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sentimeter",
		Name:      "cache_lookups_total",
		Help:      "Result cache lookups by outcome.",
	}, []string{"outcome"})

	batchRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentimeter",
		Name:      "batch_rows_total",
		Help:      "CSV rows classified by batch requests.",
	})

	persistenceFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sentimeter",
		Name:      "persistence_failures_total",
		Help:      "Analyses that could not be stored.",
	})

	componentUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sentimeter",
		Name:      "component_up",
		Help:      "1 when a dependency passed its last health check.",
	}, []string{"component"})
)

func ObserveAnalysis(label string, elapsed time.Duration) {
	analysesTotal.WithLabelValues(label).Inc()
	inferenceDuration.Observe(elapsed.Seconds())
}

func AnalysisFailed() {
	analysisFailuresTotal.Inc()
}

func CacheLookup(hit bool) {
	if hit {
		cacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	cacheLookupsTotal.WithLabelValues("miss").Inc()
}

func BatchRowProcessed() {
	batchRowsTotal.Inc()
}

func PersistenceFailed() {
	persistenceFailuresTotal.Inc()
}

func SetComponentUp(component string, up bool) {
	value := 0.0
	if up {
		value = 1
	}
	componentUp.WithLabelValues(component).Set(value)
}
