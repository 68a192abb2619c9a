package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vesselmatch_operation_duration_seconds",
			Help:    "Duration of timed operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"op", "outcome"},
	)

	RankingCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselmatch_ranking_cache_lookups_total",
			Help: "Ranking memo lookups by result",
		},
		[]string{"result"},
	)

	RankingCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vesselmatch_ranking_cache_evictions_total",
			Help: "Ranking memo entries dropped to stay within capacity",
		},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vesselmatch_match_score",
			Help:    "Distribution of aggregate match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	OffersRanked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vesselmatch_offers_ranked_total",
			Help: "Offers passed through a ranking, by mode",
		},
		[]string{"mode"},
	)

	ComparisonSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vesselmatch_comparison_set_size",
			Help: "Number of offers currently held for side-by-side comparison",
		},
	)
)

func CacheHit()  { RankingCacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { RankingCacheLookups.WithLabelValues("miss").Inc() }
