package analytics

import (
	"github.com/google/uuid"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/experience"
)

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// tally accumulates one group of experiences.
type tally struct {
	count    int
	rating   mean
	outcomes [6]mean
}

func (t *tally) add(e *types.Experience) {
	t.count++
	if r, ok := e.Rating(); ok {
		t.rating.add(r)
	}
	for i, k := range experience.OutcomeKeys {
		if v, ok := e.Outcomes.Value(k); ok {
			t.outcomes[i].add(float64(v))
		}
	}
}

func (t *tally) outcomeMeans() map[types.OutcomeKey]float64 {
	out := make(map[types.OutcomeKey]float64, len(experience.OutcomeKeys))
	for i, k := range experience.OutcomeKeys {
		out[k] = t.outcomes[i].value()
	}
	return out
}

// peptideGroup is a tally keyed by peptide, remembering the first non-empty
// denormalized name so rows survive catalog deletions.
type peptideGroup struct {
	tally
	peptideID uuid.UUID
	name      string
}

// groupByPeptide tallies active experiences per peptide. order lists peptide
// IDs in first-seen order.
func groupByPeptide(exps []*types.Experience) (groups map[uuid.UUID]*peptideGroup, order []uuid.UUID) {
	groups = make(map[uuid.UUID]*peptideGroup)
	for _, e := range exps {
		if e == nil || !e.IsActive {
			continue
		}
		g, ok := groups[e.PeptideID]
		if !ok {
			g = &peptideGroup{peptideID: e.PeptideID}
			groups[e.PeptideID] = g
			order = append(order, e.PeptideID)
		}
		if g.name == "" {
			g.name = e.PeptideName
		}
		g.add(e)
	}
	return groups, order
}

// Catalog indexes peptides by ID for labelling aggregate rows.
type Catalog map[uuid.UUID]*types.Peptide

func NewCatalog(peptides []*types.Peptide) Catalog {
	c := make(Catalog, len(peptides))
	for _, p := range peptides {
		if p != nil {
			c[p.ID] = p
		}
	}
	return c
}

// label resolves a display name and category, falling back to the
// denormalized experience name when the catalog no longer has the peptide.
func (c Catalog) label(id uuid.UUID, fallback string) (name, category string) {
	if p, ok := c[id]; ok && p != nil {
		return p.Name, p.Category
	}
	return fallback, ""
}
