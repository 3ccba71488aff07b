package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of the service
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	ActiveSessions    prometheus.Gauge
	RetryPasses       prometheus.Counter
	Judgments         *prometheus.CounterVec
	WordsImported     prometheus.Counter
	WordsDeleted      prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "quiz_sessions_started_total",
			Help:      "Test sessions started.",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "quiz_sessions_completed_total",
			Help:      "Test sessions in which every word was answered correctly.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flashcards",
			Name:      "quiz_sessions_active",
			Help:      "Test sessions currently held in memory.",
		}),
		RetryPasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "quiz_retry_passes_total",
			Help:      "Retry passes started.",
		}),
		Judgments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "quiz_judgments_total",
			Help:      "Answers judged, by result.",
		}, []string{"result"}),
		WordsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "words_imported_total",
			Help:      "Words imported from uploads.",
		}),
		WordsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flashcards",
			Name:      "words_deleted_total",
			Help:      "Words deleted from units.",
		}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsCompleted,
		m.ActiveSessions,
		m.RetryPasses,
		m.Judgments,
		m.WordsImported,
		m.WordsDeleted,
	)

	return m
}

// NewNop returns metrics registered on a private registry, for tests
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// ObserveJudgment counts one answer
func (m *Metrics) ObserveJudgment(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.Judgments.WithLabelValues(result).Inc()
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
