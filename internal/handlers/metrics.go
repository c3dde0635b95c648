package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Counter for created sessions
	sessionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theory_sessions_created_total",
			Help: "Total number of test sessions created",
		},
		[]string{"test_type"},
	)

	// Counter for recorded answers
	answersRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theory_answers_recorded_total",
			Help: "Total number of answers recorded in sessions",
		},
		[]string{"result"}, // result: correct/wrong
	)

	// Counter for finished sessions
	sessionsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "theory_sessions_completed_total",
			Help: "Total number of test sessions completed",
		},
		[]string{"outcome"}, // outcome: passed/failed
	)

	// Histogram for final scores
	sessionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "theory_session_score_percentage",
			Help:    "Distribution of final session scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)
)
