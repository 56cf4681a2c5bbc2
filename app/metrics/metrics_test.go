package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CommentCreated()
	m.CommentCreated()
	m.CommentRejected()
	m.ObserveRequest("GET", "/news/{id}/", "200", 0.01)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CommentsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CommentsRejected))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/news/{id}/", "200")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CommentCreated()
		m.CommentRejected()
		m.ObserveRequest("GET", "/", "200", 0)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.CommentCreated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "newsboard_comments_created_total 1")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestGatherer(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/", "200", 0.01)
	m.ObserveRequest("GET", "/", "200", 0.02)
	m.ObserveRequest("POST", "/news/{id}/", "302", 0.03)

	n, err := testutil.GatherAndCount(m.Gatherer(), "newsboard_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = testutil.GatherAndCount(m.Gatherer(), "newsboard_comments_created_total", "newsboard_comments_rejected_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
