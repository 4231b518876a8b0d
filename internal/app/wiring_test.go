package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/peptide-insights-backend/internal/data/repos/testutil"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
)

func TestWiringServesCatalog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	cfg := Config{AnalyticsSource: AnalyticsSourceMongo, MetricsEnabled: true, JWTSecretKey: "secret"}
	metrics := observability.NewMetrics()

	reposet := wireRepos(db, log)
	// No legacy reader connected, so analytics stays on Postgres.
	serviceset := wireServices(db, log, cfg, Clients{}, reposet, metrics)
	res, err := serviceset.Peptide.SeedCatalog(context.Background())
	require.NoError(t, err)
	require.True(t, res.Seeded)

	server := wireServer(log, cfg, metrics, wireHandlers(log, Clients{}, serviceset), wireMiddleware(log, cfg))

	w := httptest.NewRecorder()
	server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			TotalExperiences int `json:"totalExperiences"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 0, body.Data.TotalExperiences)

	w = httptest.NewRecorder()
	server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/peptides", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/effects?type=positive", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	server.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
