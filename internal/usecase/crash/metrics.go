package crash

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	witnessVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samaritan_witness_votes_total",
		Help: "Witness votes processed, by outcome.",
	}, []string{"outcome"})

	voteQuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "samaritan_witness_vote_quota_rejections_total",
		Help: "Witness votes refused because the voter exceeded the ceiling.",
	})

	commentsPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samaritan_comments_posted_total",
		Help: "Comments appended to crash threads, by kind.",
	}, []string{"kind"})

	crashesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "samaritan_crashes_created_total",
		Help: "Crash reports created.",
	})

	statsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "samaritan_crash_stats_cache_lookups_total",
		Help: "Statistics cache lookups, by result.",
	}, []string{"result"})
)
