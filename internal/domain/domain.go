package domain

import (
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
	"github.com/yungbote/peptide-insights-backend/internal/domain/experience"
	"github.com/yungbote/peptide-insights-backend/internal/domain/user"
)

type Peptide = catalog.Peptide
type DosageRanges = catalog.DosageRanges
type PeptideTimeline = catalog.Timeline

type Effect = catalog.Effect
type EffectFilter = catalog.EffectFilter

type Experience = experience.Experience
type Outcomes = experience.Outcomes
type OutcomeKey = experience.OutcomeKey
type Demographics = experience.Demographics
type Sourcing = experience.Sourcing
type Vote = experience.Vote

var OutcomeKeys = experience.OutcomeKeys

type ExperienceFilter = experience.Filter
type ExperienceListQuery = experience.ListQuery

type UserProfile = user.Profile
