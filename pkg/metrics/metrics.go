// Package metrics exposes the process-wide Prometheus counters/gauges the
// interview and proctoring core update as they run, grounded on the
// promauto registration pattern used throughout the retrieval pack's
// observability code.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveInterviews = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "interview_platform",
		Subsystem: "agent",
		Name:      "active_interviews",
		Help:      "Number of interview sessions currently in progress",
	})

	InterviewsStartedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "agent",
		Name:      "interviews_started_total",
		Help:      "Total interviews started, by type and mode",
	}, []string{"type", "mode"})

	InterviewsCompletedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "agent",
		Name:      "interviews_completed_total",
		Help:      "Total interviews completed, by type",
	}, []string{"type"})

	EvaluationsScoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "scoring",
		Name:      "evaluations_scored_total",
		Help:      "Total answers scored, by question type",
	}, []string{"type"})

	AdaptiveDifficultyShiftsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "agent",
		Name:      "adaptive_difficulty_shifts_total",
		Help:      "Total mid-session difficulty adjustments, by new difficulty",
	}, []string{"new_difficulty"})

	ActiveProctorSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "interview_platform",
		Subsystem: "proctor",
		Name:      "active_sessions",
		Help:      "Number of proctor sessions currently in progress",
	})

	ProctorFramesAnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "proctor",
		Name:      "frames_analyzed_total",
		Help:      "Total video frames analyzed across all proctor sessions",
	})

	ProctorViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview_platform",
		Subsystem: "proctor",
		Name:      "violations_total",
		Help:      "Total proctoring violations, by kind and severity",
	}, []string{"kind", "severity"})

	ProctorIntegrityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "interview_platform",
		Subsystem: "proctor",
		Name:      "integrity_score",
		Help:      "Distribution of final integrity scores",
		Buckets:   []float64{0, 20, 40, 50, 60, 70, 80, 90, 95, 100},
	})
)
