package repos

import (
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/catalog"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/experiences"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos/users"
)

type PeptideRepo = catalog.PeptideRepo
type EffectRepo = catalog.EffectRepo

type ExperienceRepo = experiences.ExperienceRepo
type VoteRepo = experiences.VoteRepo

type ProfileRepo = users.ProfileRepo

var (
	NewPeptideRepo    = catalog.NewPeptideRepo
	NewEffectRepo     = catalog.NewEffectRepo
	NewExperienceRepo = experiences.NewExperienceRepo
	NewVoteRepo       = experiences.NewVoteRepo
	NewProfileRepo    = users.NewProfileRepo
)
