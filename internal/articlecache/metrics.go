package articlecache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordweave_article_cache_hits_total",
		Help: "Article cache hits by layer.",
	}, []string{"layer"})

	metricMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordweave_article_cache_misses_total",
		Help: "Article cache full misses that required generation.",
	})

	metricGenerations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordweave_article_generations_total",
		Help: "Article generations by outcome.",
	}, []string{"outcome"})

	metricQualityWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordweave_generation_quality_warnings_total",
		Help: "Generated articles whose blank count did not match the word set size.",
	})

	metricEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordweave_article_cache_evicted_total",
		Help: "Durable cache entries evicted, by reason.",
	}, []string{"reason"})
)
