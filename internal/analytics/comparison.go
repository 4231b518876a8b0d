package analytics

import (
	"github.com/google/uuid"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
)

type ComparisonRow struct {
	PeptideID        uuid.UUID                    `json:"peptideId"`
	Name             string                       `json:"name"`
	Category         string                       `json:"category"`
	TotalExperiences int                          `json:"totalExperiences"`
	AverageRating    float64                      `json:"averageRating"`
	Outcomes         map[types.OutcomeKey]float64 `json:"outcomes"`
}

// Compare builds one row per requested peptide that has active experiences,
// in the order of ids. Peptides without experiences are skipped.
func Compare(ids []uuid.UUID, exps []*types.Experience, catalog Catalog) []ComparisonRow {
	groups, _ := groupByPeptide(exps)
	out := make([]ComparisonRow, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		g, ok := groups[id]
		if !ok || g.count == 0 {
			continue
		}
		name, category := catalog.label(id, g.name)
		out = append(out, ComparisonRow{
			PeptideID:        id,
			Name:             name,
			Category:         category,
			TotalExperiences: g.count,
			AverageRating:    g.rating.value(),
			Outcomes:         g.outcomeMeans(),
		})
	}
	return out
}
