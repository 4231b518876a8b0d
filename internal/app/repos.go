package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type Repos struct {
	Peptide    repos.PeptideRepo
	Effect     repos.EffectRepo
	Experience repos.ExperienceRepo
	Vote       repos.VoteRepo
	Profile    repos.ProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Peptide:    repos.NewPeptideRepo(db, log),
		Effect:     repos.NewEffectRepo(db, log),
		Experience: repos.NewExperienceRepo(db, log),
		Vote:       repos.NewVoteRepo(db, log),
		Profile:    repos.NewProfileRepo(db, log),
	}
}
