package app

import (
	httpH "github.com/yungbote/peptide-insights-backend/internal/http/handlers"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type Handlers struct {
	Analytics  *httpH.AnalyticsHandler
	Peptide    *httpH.PeptideHandler
	Effect     *httpH.EffectHandler
	Experience *httpH.ExperienceHandler
	Vote       *httpH.VoteHandler
	User       *httpH.UserHandler
	Seed       *httpH.SeedHandler
	Health     *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, clients Clients, services Services) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{}
	if clients.Postgres != nil {
		checks["postgres"] = clients.Postgres
	}
	if clients.Idempotency != nil {
		checks["redis"] = clients.Idempotency
	}
	if clients.Legacy != nil {
		checks["mongo"] = clients.Legacy
	}
	return Handlers{
		Analytics:  httpH.NewAnalyticsHandler(services.Analytics),
		Peptide:    httpH.NewPeptideHandler(services.Peptide),
		Effect:     httpH.NewEffectHandler(services.Effect),
		Experience: httpH.NewExperienceHandler(services.Experience),
		Vote:       httpH.NewVoteHandler(services.Vote),
		User:       httpH.NewUserHandler(services.Profile),
		Seed:       httpH.NewSeedHandler(services.Peptide, services.Effect),
		Health:     httpH.NewHealthHandler(checks),
	}
}
