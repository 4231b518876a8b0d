package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/observability"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
	"github.com/yungbote/peptide-insights-backend/internal/services"
)

type Services struct {
	Analytics  services.AnalyticsService
	Peptide    services.PeptideService
	Effect     services.EffectService
	Experience services.ExperienceService
	Vote       services.VoteService
	Profile    services.ProfileService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var (
		experienceStore services.ExperienceStore = reposet.Experience
		catalog         services.PeptideCatalog  = reposet.Peptide
	)
	if cfg.AnalyticsSource == AnalyticsSourceMongo && clients.Legacy != nil {
		log.Info("Analytics reads served from MongoDB", "database", cfg.MongoDatabase)
		experienceStore = clients.Legacy
		catalog = clients.Legacy
	}

	var idem services.IdempotencyStore
	if clients.Idempotency != nil {
		idem = clients.Idempotency
	}

	return Services{
		Analytics: services.NewAnalyticsService(log, experienceStore, catalog, services.AnalyticsOptions{
			QueryTimeout: cfg.AnalyticsQueryTimeout,
			Metrics:      metrics,
		}),
		Peptide:    services.NewPeptideService(db, log, reposet.Peptide, reposet.Experience),
		Experience: services.NewExperienceService(db, log, reposet.Experience, reposet.Peptide, idem, metrics),
		Vote:       services.NewVoteService(db, log, reposet.Vote, reposet.Experience, metrics),
		Effect:     services.NewEffectService(db, log, reposet.Effect),
		Profile:    services.NewProfileService(db, log, reposet.Profile),
	}
}
