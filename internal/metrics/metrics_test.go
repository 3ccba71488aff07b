package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveJudgment(t *testing.T) {
	m := NewNop()

	m.ObserveJudgment(true)
	m.ObserveJudgment(false)
	m.ObserveJudgment(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Judgments.WithLabelValues("correct")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Judgments.WithLabelValues("incorrect")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewNop()
	m.SessionsStarted.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "flashcards_quiz_sessions_started_total 1")
}
