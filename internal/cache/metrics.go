package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandgate_cache_hits_total",
		Help: "Cache hits by backing store.",
	}, []string{"store"})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brandgate_cache_misses_total",
		Help: "Reads that found no live entry in any store.",
	})

	fallbackCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brandgate_cache_fallback_total",
		Help: "Calls served by the in-process fallback because the remote store was unavailable.",
	}, []string{"op"})

	producerCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "brandgate_cache_producer_calls_total",
		Help: "Read-through producer invocations (cache misses that computed a fresh value).",
	})
)

const (
	storeRemote   = "remote"
	storeFallback = "fallback"
)
