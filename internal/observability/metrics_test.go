package observability

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()

	m.ObserveAPI("GET", "/api/analytics", 200, 15*time.Millisecond)
	m.ObserveAPI("GET", "/api/analytics", 200, 5*time.Millisecond)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("GET", "/api/analytics", "200")))

	m.ApiInflightInc()
	m.ApiInflightInc()
	m.ApiInflightDec()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiInflight))

	m.ObserveAnalytics("trends", time.Millisecond, nil)
	m.ObserveAnalytics("trends", time.Millisecond, fmt.Errorf("bad: %w", pkgerrors.ErrInvalidArgument))
	m.ObserveAnalytics("summary", time.Millisecond, fmt.Errorf("db: %w", pkgerrors.ErrStoreUnavailable))
	m.ObserveAnalytics("summary", time.Millisecond, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsFailures.WithLabelValues("trends", "invalid_argument")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsFailures.WithLabelValues("summary", "store_unavailable")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analyticsFailures.WithLabelValues("summary", "internal")))

	m.IncExperienceSubmitted()
	m.IncIdempotentReplay()
	m.IncVote("helpful")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.experiencesSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.idempotentReplays))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.votesRecorded.WithLabelValues("helpful")))
}

func TestMetricsHandlerExposesRegistry(t *testing.T) {
	m := NewMetrics()
	m.IncExperienceSubmitted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "peptide_insights_experiences_submitted_total 1")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAPI("GET", "/", 200, time.Second)
		m.ApiInflightInc()
		m.ApiInflightDec()
		m.ObserveAnalytics("x", time.Second, errors.New("x"))
		m.IncExperienceSubmitted()
		m.IncIdempotentReplay()
		m.IncVote("helpful")
	})
	assert.Nil(t, m.Registry())
}
