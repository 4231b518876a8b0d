package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/peptide-insights-backend/internal/http/handlers"
	httpMW "github.com/yungbote/peptide-insights-backend/internal/http/middleware"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	TracingEnabled bool
	CORSOrigins    []string

	AuthMiddleware *httpMW.AuthMiddleware

	AnalyticsHandler  *httpH.AnalyticsHandler
	PeptideHandler    *httpH.PeptideHandler
	EffectHandler     *httpH.EffectHandler
	ExperienceHandler *httpH.ExperienceHandler
	VoteHandler       *httpH.VoteHandler
	UserHandler       *httpH.UserHandler
	SeedHandler       *httpH.SeedHandler
	HealthHandler     *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	requireAuth := func(c *gin.Context) { c.Next() }
	if cfg.AuthMiddleware != nil {
		requireAuth = cfg.AuthMiddleware.RequireAuth()
	}

	api := r.Group("/api")

	// Analytics
	if h := cfg.AnalyticsHandler; h != nil {
		api.GET("/analytics", h.GetOverview)
		api.GET("/analytics/peptide-effectiveness", h.GetEffectiveness)
		api.GET("/analytics/peptide-trends", h.GetTrends)
		api.GET("/analytics/trends", h.GetTrends)
		api.GET("/analytics/peptide-comparison", h.GetComparison)
	}

	// Peptides
	if h := cfg.PeptideHandler; h != nil {
		api.GET("/peptides", h.List)
		api.GET("/peptides/search/:query", h.Search)
		api.GET("/peptides/:id", h.Get)
		api.POST("/peptides", requireAuth, h.Create)
		api.PUT("/peptides/:id", requireAuth, h.Update)
		api.DELETE("/peptides/:id", requireAuth, h.Delete)
	}

	// Effects
	if h := cfg.EffectHandler; h != nil {
		api.GET("/effects", h.List)
	}

	// Experiences
	if h := cfg.ExperienceHandler; h != nil {
		api.GET("/experiences", h.List)
		api.GET("/experiences/peptide/:peptideId", h.ListByPeptide)
		api.GET("/experiences/tracking/:trackingId", h.GetByTrackingID)
		api.GET("/experiences/:id", h.Get)
		api.POST("/experiences", requireAuth, h.Create)
		api.DELETE("/experiences/:id", requireAuth, h.Delete)
	}

	// Votes
	if h := cfg.VoteHandler; h != nil {
		api.GET("/experiences/:id/votes", h.Counts)
		api.GET("/experiences/:id/votes/user", requireAuth, h.GetUserVote)
		api.POST("/experiences/:id/votes", requireAuth, h.Submit)
		api.DELETE("/experiences/:id/votes", requireAuth, h.Delete)
	}

	// Users
	if h := cfg.UserHandler; h != nil {
		api.GET("/users/me", requireAuth, h.GetMe)
		api.PUT("/users/me", requireAuth, h.UpdateMe)
	}

	// Seed
	if h := cfg.SeedHandler; h != nil {
		api.POST("/seed/peptides", requireAuth, h.SeedPeptides)
		api.DELETE("/seed/peptides", requireAuth, h.ClearPeptides)
		api.POST("/seed/effects", requireAuth, h.SeedEffects)
		api.DELETE("/seed/effects", requireAuth, h.ClearEffects)
	}

	return r
}
