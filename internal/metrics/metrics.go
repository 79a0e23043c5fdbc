package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	VotesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_accepted_total",
		Help: "Votes durably recorded and tallied.",
	})

	VotesDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_duplicate_total",
		Help: "Vote attempts rejected because the (voter, entrant) pair already voted.",
	})

	VotesUnknownEntrant = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_unknown_entrant_total",
		Help: "Vote attempts rejected because the entrant does not exist.",
	})

	VotesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_failed_total",
		Help: "Vote attempts that hit a storage fault before commit.",
	})

	CounterDrift = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_counter_drift_total",
		Help: "Accepted votes whose counter increment failed after ledger commit; repaired only by reconciliation.",
	})

	BroadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vote_broadcasts_dropped_total",
		Help: "Vote updates dropped because a subscriber queue was full.",
	})
)
