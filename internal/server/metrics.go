package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddy_searches_total",
		Help: "Number of search requests handled.",
	})
	searchFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddy_search_fallbacks_total",
		Help: "Number of search requests answered with the fallback response.",
	})
	searchSourcesReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "buddy_search_sources_returned",
		Help:    "Sources returned per search after filtering.",
		Buckets: []float64{0, 1, 3, 5, 10, 20, 50, 100},
	})
	searchCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buddy_search_cache_hits_total",
		Help: "Number of search responses served from the redis cache.",
	})
	feedbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buddy_search_feedback_total",
		Help: "Search feedback submissions by rating.",
	}, []string{"rating"})
)
