package app

import (
	apphttp "github.com/yungbote/peptide-insights-backend/internal/http"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers, middleware Middleware) *apphttp.Server {
	log.Info("Wiring router...")
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		ServiceName:       cfg.OtelServiceName,
		TracingEnabled:    cfg.OtelEnabled,
		CORSOrigins:       cfg.CORSAllowedOrigins,
		AuthMiddleware:    middleware.Auth,
		AnalyticsHandler:  handlers.Analytics,
		PeptideHandler:    handlers.Peptide,
		EffectHandler:     handlers.Effect,
		ExperienceHandler: handlers.Experience,
		VoteHandler:       handlers.Vote,
		UserHandler:       handlers.User,
		SeedHandler:       handlers.Seed,
		HealthHandler:     handlers.Health,
	})
}
