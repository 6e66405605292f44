package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bullyguard",
		Name:      "prediction_cache_hits_total",
		Help:      "Predictions served from the Redis cache.",
	})
	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "bullyguard",
		Name:      "prediction_cache_misses_total",
		Help:      "Predictions that went to the model runtime.",
	})
)
