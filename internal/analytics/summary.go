package analytics

import (
	"sort"

	"github.com/google/uuid"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
)

// TopPeptidesLimit caps UsageSummary.TopPeptides.
const TopPeptidesLimit = 5

type TopPeptide struct {
	PeptideID   uuid.UUID `json:"peptideId"`
	Name        string    `json:"name"`
	Rating      float64   `json:"rating"`
	Experiences int       `json:"experiences"`
}

type UsageSummary struct {
	TotalExperiences int          `json:"totalExperiences"`
	TotalPeptides    int          `json:"totalPeptides"`
	AverageRating    float64      `json:"averageRating"`
	TopPeptides      []TopPeptide `json:"topPeptides"`
}

// Summarize computes the global usage summary. TotalPeptides counts distinct
// peptides among active experiences, not catalog size.
func Summarize(exps []*types.Experience, catalog Catalog) UsageSummary {
	groups, order := groupByPeptide(exps)

	var all tally
	for _, e := range exps {
		if e != nil && e.IsActive {
			all.add(e)
		}
	}

	top := make([]TopPeptide, 0, len(order))
	for _, id := range order {
		g := groups[id]
		name, _ := catalog.label(id, g.name)
		top = append(top, TopPeptide{
			PeptideID:   id,
			Name:        name,
			Rating:      g.rating.value(),
			Experiences: g.count,
		})
	}
	sort.SliceStable(top, func(i, j int) bool {
		if top[i].Experiences != top[j].Experiences {
			return top[i].Experiences > top[j].Experiences
		}
		if top[i].Name != top[j].Name {
			return top[i].Name < top[j].Name
		}
		return top[i].PeptideID.String() < top[j].PeptideID.String()
	})
	if len(top) > TopPeptidesLimit {
		top = top[:TopPeptidesLimit]
	}

	return UsageSummary{
		TotalExperiences: all.count,
		TotalPeptides:    len(order),
		AverageRating:    all.rating.value(),
		TopPeptides:      top,
	}
}
