package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/peptide-insights-backend/internal/clients/redis"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/peptide-insights-backend/internal/http/handlers"
	httpMW "github.com/yungbote/peptide-insights-backend/internal/http/middleware"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	"github.com/yungbote/peptide-insights-backend/internal/services"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

const routerSecret = "router-test-secret"

type stubIdempotency struct {
	mu      sync.Mutex
	results map[string]string
}

func (s *stubIdempotency) Begin(ctx context.Context, scope, key string) (redis.IdempotencyState, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.results[scope+key]
	switch {
	case !ok:
		s.results[scope+key] = ""
		return redis.IdempotencyNew, "", nil
	case v == "":
		return redis.IdempotencyInFlight, "", nil
	}
	return redis.IdempotencyDone, v, nil
}

func (s *stubIdempotency) Complete(ctx context.Context, scope, key, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[scope+key] = result
	return nil
}

func (s *stubIdempotency) Abort(ctx context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.results, scope+key)
	return nil
}

type testAPI struct {
	engine *gin.Engine
	token  string
	userID uuid.UUID
}

func newTestAPI(t *testing.T, readiness map[string]httpH.Pinger) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := testutil.SQLite(t)
	log := logger.NewNop()
	metrics := observability.NewMetrics()

	peptideRepo := repos.NewPeptideRepo(gdb, log)
	experienceRepo := repos.NewExperienceRepo(gdb, log)
	voteRepo := repos.NewVoteRepo(gdb, log)
	effectRepo := repos.NewEffectRepo(gdb, log)
	profileRepo := repos.NewProfileRepo(gdb, log)

	analyticsSvc := services.NewAnalyticsService(log, experienceRepo, peptideRepo, services.AnalyticsOptions{
		QueryTimeout: 5 * time.Second,
		Metrics:      metrics,
	})
	peptideSvc := services.NewPeptideService(gdb, log, peptideRepo, experienceRepo)
	experienceSvc := services.NewExperienceService(gdb, log, experienceRepo, peptideRepo,
		&stubIdempotency{results: map[string]string{}}, metrics)
	voteSvc := services.NewVoteService(gdb, log, voteRepo, experienceRepo, metrics)
	effectSvc := services.NewEffectService(gdb, log, effectRepo)
	profileSvc := services.NewProfileService(gdb, log, profileRepo)

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, routerSecret),
		AnalyticsHandler:  httpH.NewAnalyticsHandler(analyticsSvc),
		PeptideHandler:    httpH.NewPeptideHandler(peptideSvc),
		EffectHandler:     httpH.NewEffectHandler(effectSvc),
		ExperienceHandler: httpH.NewExperienceHandler(experienceSvc),
		VoteHandler:       httpH.NewVoteHandler(voteSvc),
		UserHandler:       httpH.NewUserHandler(profileSvc),
		SeedHandler:       httpH.NewSeedHandler(peptideSvc, effectSvc),
		HealthHandler:     httpH.NewHealthHandler(readiness),
	})

	userID := uuid.New()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(routerSecret))
	require.NoError(t, err)
	return &testAPI{engine: engine, token: token, userID: userID}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (a *testAPI) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (a *testAPI) auth(extra ...string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + a.token}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func TestRouterEndToEnd(t *testing.T) {
	api := newTestAPI(t, nil)

	rec, env := api.do(t, nethttp.MethodPost, "/api/seed/peptides", nil, nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Code)

	rec, env = api.do(t, nethttp.MethodPost, "/api/seed/peptides", nil, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var seeded services.SeedResult
	require.NoError(t, json.Unmarshal(env.Data, &seeded))
	assert.True(t, seeded.Seeded)

	rec, env = api.do(t, nethttp.MethodGet, "/api/peptides", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.True(t, env.Success)
	var peptides []struct {
		ID               uuid.UUID `json:"id"`
		Name             string    `json:"name"`
		TotalExperiences int       `json:"totalExperiences"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &peptides))
	require.NotEmpty(t, peptides)
	target := peptides[0]

	submission := map[string]any{
		"peptideId":             target.ID.String(),
		"dosage":                "250mcg",
		"frequency":             "daily",
		"duration":              4,
		"routeOfAdministration": "subcutaneous",
		"primaryPurpose":        []string{"recovery"},
		"outcomes":              map[string]int{"energy": 8, "sleep": 8, "mood": 8, "performance": 8, "recovery": 8, "sideEffects": 8},
		"effects":               []string{"Less soreness"},
		"timeline":              "1-week",
	}
	rec, env = api.do(t, nethttp.MethodPost, "/api/experiences", submission, api.auth("Idempotency-Key", "k-1"))
	require.Equal(t, nethttp.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID         uuid.UUID `json:"id"`
		TrackingID string    `json:"trackingId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = api.do(t, nethttp.MethodPost, "/api/experiences", submission, api.auth("Idempotency-Key", "k-1"))
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("Idempotent-Replayed"))
	assert.Contains(t, string(env.Data), created.ID.String())

	rec, _ = api.do(t, nethttp.MethodGet, "/api/experiences/tracking/"+created.TrackingID, nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	rec, env = api.do(t, nethttp.MethodGet, "/api/experiences/peptide/"+target.ID.String()+"?limit=5", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":1`)

	rec, env = api.do(t, nethttp.MethodPost, "/api/experiences/"+created.ID.String()+"/votes", map[string]string{"type": "helpful"}, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"helpful":1`)

	rec, env = api.do(t, nethttp.MethodGet, "/api/analytics", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var overview services.Overview
	require.NoError(t, json.Unmarshal(env.Data, &overview))
	assert.Equal(t, 1, overview.TotalExperiences)
	assert.Equal(t, 8.0, overview.AverageRating)
	require.Len(t, overview.EffectivenessData, 1)

	rec, env = api.do(t, nethttp.MethodGet, "/api/analytics/peptide-trends?period=weekly&limit=4", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var trend []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &trend))
	assert.Len(t, trend, 4)

	rec, env = api.do(t, nethttp.MethodGet, "/api/analytics/peptide-comparison?peptideIds="+target.ID.String()+",nope", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), target.Name)
}

func TestRouterEffects(t *testing.T) {
	api := newTestAPI(t, nil)

	rec, env := api.do(t, nethttp.MethodPost, "/api/seed/effects", nil, nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Code)

	rec, env = api.do(t, nethttp.MethodPost, "/api/seed/effects", nil, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var seeded services.EffectSeedResult
	require.NoError(t, json.Unmarshal(env.Data, &seeded))
	assert.True(t, seeded.Seeded)
	assert.Equal(t, int64(41), seeded.Count)

	rec, env = api.do(t, nethttp.MethodGet, "/api/effects?type=negative&category=Side%20Effect", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var effects []struct {
		Name     string `json:"name"`
		Type     string `json:"type"`
		Severity string `json:"severity"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &effects))
	require.NotEmpty(t, effects)
	for _, e := range effects {
		assert.Equal(t, "negative", e.Type)
		assert.NotEmpty(t, e.Severity)
	}

	rec, env = api.do(t, nethttp.MethodGet, "/api/effects?type=neutral", nil, nil)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", env.Error.Code)

	rec, env = api.do(t, nethttp.MethodDelete, "/api/seed/effects", nil, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":41}`, string(env.Data))

	rec, env = api.do(t, nethttp.MethodGet, "/api/effects", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouterUserProfile(t *testing.T) {
	api := newTestAPI(t, nil)

	rec, env := api.do(t, nethttp.MethodGet, "/api/users/me", nil, nil)
	require.Equal(t, nethttp.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", env.Error.Code)

	type profile struct {
		UserID       uuid.UUID `json:"userId"`
		Demographics struct {
			Age          *int     `json:"age"`
			FitnessGoals []string `json:"fitnessGoals"`
		} `json:"demographics"`
		Preferences struct {
			Units struct {
				Weight string `json:"weight"`
			} `json:"units"`
			Privacy struct {
				ShareWeight bool `json:"shareWeight"`
			} `json:"privacy"`
		} `json:"preferences"`
	}

	rec, env = api.do(t, nethttp.MethodGet, "/api/users/me", nil, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	var got profile
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, api.userID, got.UserID)
	assert.Nil(t, got.Demographics.Age)
	assert.Equal(t, "kg", got.Preferences.Units.Weight)

	update := map[string]any{
		"demographics": map[string]any{"age": 29, "fitnessGoals": []string{"endurance"}},
		"preferences":  map[string]any{"units": map[string]string{"weight": "lbs"}, "privacy": map[string]bool{"shareWeight": true}},
	}
	rec, _ = api.do(t, nethttp.MethodPut, "/api/users/me", update, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())

	rec, env = api.do(t, nethttp.MethodGet, "/api/users/me", nil, api.auth())
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.NotNil(t, got.Demographics.Age)
	assert.Equal(t, 29, *got.Demographics.Age)
	assert.Equal(t, []string{"endurance"}, got.Demographics.FitnessGoals)
	assert.Equal(t, "lbs", got.Preferences.Units.Weight)
	assert.True(t, got.Preferences.Privacy.ShareWeight)

	rec, env = api.do(t, nethttp.MethodPut, "/api/users/me", map[string]any{"demographics": map[string]any{"age": 12}}, api.auth())
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_argument", env.Error.Code)

	rec, env = api.do(t, nethttp.MethodPut, "/api/users/me", "not an object", api.auth())
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", env.Error.Code)
}

func TestRouterErrorMapping(t *testing.T) {
	api := newTestAPI(t, nil)

	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/analytics/peptide-trends?period=bogus-period", nethttp.StatusBadRequest, "invalid_argument"},
		{"/api/analytics/trends?limit=abc", nethttp.StatusBadRequest, "invalid_argument"},
		{"/api/analytics/trends?limit=-1", nethttp.StatusBadRequest, "invalid_argument"},
		{"/api/analytics/peptide-comparison", nethttp.StatusBadRequest, "invalid_argument"},
		{"/api/peptides/not-a-uuid", nethttp.StatusBadRequest, "invalid_argument"},
		{"/api/peptides/" + uuid.NewString(), nethttp.StatusNotFound, "not_found"},
		{"/api/experiences/" + uuid.NewString(), nethttp.StatusNotFound, "not_found"},
		{"/api/experiences?sort=random", nethttp.StatusBadRequest, "invalid_argument"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec, env := api.do(t, nethttp.MethodGet, tc.path, nil, nil)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
			assert.Equal(t, tc.code, env.Error.Code)
		})
	}

	rec, env := api.do(t, nethttp.MethodGet, "/api/analytics/trends?limit=0", nil, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestRouterHealth(t *testing.T) {
	api := newTestAPI(t, map[string]httpH.Pinger{
		"postgres": httpH.PingFunc(func(context.Context) error { return nil }),
	})
	rec, _ := api.do(t, nethttp.MethodGet, "/healthcheck", nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec, _ = api.do(t, nethttp.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"postgres":"ok"`)

	down := newTestAPI(t, map[string]httpH.Pinger{
		"postgres": httpH.PingFunc(func(context.Context) error { return nil }),
		"redis":    httpH.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	rec, _ = down.do(t, nethttp.MethodGet, "/readyz", nil, nil)
	assert.Equal(t, nethttp.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"connection refused"`)

	rec, _ = api.do(t, nethttp.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "peptide_insights_http_requests_total")
}
