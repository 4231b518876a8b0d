package analytics

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
)

type EffectivenessEntry struct {
	PeptideID     uuid.UUID                    `json:"peptideId"`
	Peptide       string                       `json:"peptide"`
	Category      string                       `json:"category,omitempty"`
	Experiences   int                          `json:"experiences"`
	AverageRating float64                      `json:"averageRating"`
	Effectiveness map[types.OutcomeKey]float64 `json:"effectiveness"`
}

// Effectiveness returns one entry per peptide with at least one active
// experience, ordered by experience count desc, then name, then ID.
func Effectiveness(exps []*types.Experience, catalog Catalog) []EffectivenessEntry {
	groups, order := groupByPeptide(exps)
	out := make([]EffectivenessEntry, 0, len(order))
	for _, id := range order {
		g := groups[id]
		name, category := catalog.label(id, g.name)
		out = append(out, EffectivenessEntry{
			PeptideID:     id,
			Peptide:       name,
			Category:      category,
			Experiences:   g.count,
			AverageRating: g.rating.value(),
			Effectiveness: g.outcomeMeans(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Experiences != out[j].Experiences {
			return out[i].Experiences > out[j].Experiences
		}
		if out[i].Peptide != out[j].Peptide {
			return out[i].Peptide < out[j].Peptide
		}
		return out[i].PeptideID.String() < out[j].PeptideID.String()
	})
	return out
}

// PeptideStats is the per-peptide count and rating used to decorate catalog
// listings.
type PeptideStats struct {
	TotalExperiences int     `json:"totalExperiences"`
	AverageRating    float64 `json:"averageRating"`
}

// StatsByPeptide tallies active experiences per peptide.
func StatsByPeptide(exps []*types.Experience) map[uuid.UUID]PeptideStats {
	groups, _ := groupByPeptide(exps)
	out := make(map[uuid.UUID]PeptideStats, len(groups))
	for id, g := range groups {
		out[id] = PeptideStats{TotalExperiences: g.count, AverageRating: g.rating.value()}
	}
	return out
}
