package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/analytics"
	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	"github.com/yungbote/peptide-insights-backend/internal/data/seed"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/catalog"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/ctxutil"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

// PeptideWithStats decorates a catalog entry with live experience stats.
type PeptideWithStats struct {
	*types.Peptide
	TotalExperiences int     `json:"totalExperiences"`
	AverageRating    float64 `json:"averageRating"`
}

// PeptideInput is a create or partial-update payload. Nil fields are left
// unchanged on update.
type PeptideInput struct {
	Name                *string                `json:"name"`
	Category            *string                `json:"category"`
	Description         *string                `json:"description"`
	DetailedDescription *string                `json:"detailedDescription"`
	Mechanism           *string                `json:"mechanism"`
	CommonDosage        *string                `json:"commonDosage"`
	CommonFrequency     *string                `json:"commonFrequency"`
	CommonEffects       []string               `json:"commonEffects"`
	SideEffects         []string               `json:"sideEffects"`
	CommonStacks        []string               `json:"commonStacks"`
	Popularity          *int                   `json:"popularity"`
	DosageRanges        *types.DosageRanges    `json:"dosageRanges"`
	Timeline            *types.PeptideTimeline `json:"timeline"`
}

type SeedResult struct {
	Seeded   bool             `json:"seeded"`
	Count    int64            `json:"count"`
	Peptides []*types.Peptide `json:"peptides,omitempty"`
}

type PeptideService interface {
	List(ctx context.Context) ([]*PeptideWithStats, error)
	Get(ctx context.Context, id uuid.UUID) (*PeptideWithStats, error)
	Search(ctx context.Context, query string) ([]*PeptideWithStats, error)
	Create(ctx context.Context, in PeptideInput) (*types.Peptide, error)
	Update(ctx context.Context, id uuid.UUID, in PeptideInput) (*types.Peptide, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SeedCatalog(ctx context.Context) (*SeedResult, error)
	ClearCatalog(ctx context.Context) (int64, error)
}

type peptideService struct {
	db          *gorm.DB
	log         *logger.Logger
	peptideRepo repos.PeptideRepo
	experiences ExperienceStore
}

func NewPeptideService(db *gorm.DB, log *logger.Logger, peptideRepo repos.PeptideRepo, experiences ExperienceStore) PeptideService {
	return &peptideService{
		db:          db,
		log:         log.With("service", "PeptideService"),
		peptideRepo: peptideRepo,
		experiences: experiences,
	}
}

func (s *peptideService) List(ctx context.Context) ([]*PeptideWithStats, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	peptides, err := s.peptideRepo.FindPeptides(dbc, nil)
	if err != nil {
		return nil, db.MapError("list peptides", err)
	}
	return s.withStats(dbc, peptides, nil)
}

func (s *peptideService) Get(ctx context.Context, id uuid.UUID) (*PeptideWithStats, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	p, err := s.peptideRepo.GetByID(dbc, id)
	if err != nil {
		return nil, db.MapError("get peptide", err)
	}
	if p == nil {
		return nil, fmt.Errorf("peptide %s: %w", id, pkgerrors.ErrNotFound)
	}
	out, err := s.withStats(dbc, []*types.Peptide{p}, []uuid.UUID{p.ID})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *peptideService) Search(ctx context.Context, query string) ([]*PeptideWithStats, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", pkgerrors.ErrInvalidArgument)
	}
	peptides, err := s.peptideRepo.Search(dbc, query)
	if err != nil {
		return nil, db.MapError("search peptides", err)
	}
	ids := make([]uuid.UUID, 0, len(peptides))
	for _, p := range peptides {
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return []*PeptideWithStats{}, nil
	}
	return s.withStats(dbc, peptides, ids)
}

// withStats attaches experience stats. scope limits the experience scan to
// those peptides; nil scans everything.
func (s *peptideService) withStats(dbc dbctx.Context, peptides []*types.Peptide, scope []uuid.UUID) ([]*PeptideWithStats, error) {
	exps, err := s.experiences.FindActiveExperiences(dbc, types.ExperienceFilter{PeptideIDs: scope})
	if err != nil {
		return nil, storeUnavailable("load peptide stats", err)
	}
	stats := analytics.StatsByPeptide(exps)
	out := make([]*PeptideWithStats, 0, len(peptides))
	for _, p := range peptides {
		st := stats[p.ID]
		out = append(out, &PeptideWithStats{
			Peptide:          p,
			TotalExperiences: st.TotalExperiences,
			AverageRating:    st.AverageRating,
		})
	}
	return out, nil
}

func (s *peptideService) Create(ctx context.Context, in PeptideInput) (*types.Peptide, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	p := &types.Peptide{
		CommonEffects: datatypes.JSONSlice[string]{},
		SideEffects:   datatypes.JSONSlice[string]{},
		CommonStacks:  datatypes.JSONSlice[string]{},
	}
	applyPeptideInput(p, in)
	if err := validatePeptide(p); err != nil {
		return nil, err
	}
	existing, err := s.peptideRepo.GetByName(dbc, p.Name)
	if err != nil {
		return nil, db.MapError("check peptide name", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("peptide %q already exists: %w", p.Name, pkgerrors.ErrConflict)
	}
	if _, err := s.peptideRepo.Create(dbc, []*types.Peptide{p}); err != nil {
		return nil, db.MapError("create peptide", err)
	}
	s.log.Info("peptide created", "peptide_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *peptideService) Update(ctx context.Context, id uuid.UUID, in PeptideInput) (*types.Peptide, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	p, err := s.peptideRepo.GetByID(dbc, id)
	if err != nil {
		return nil, db.MapError("get peptide", err)
	}
	if p == nil {
		return nil, fmt.Errorf("peptide %s: %w", id, pkgerrors.ErrNotFound)
	}
	prevName := p.Name
	applyPeptideInput(p, in)
	if err := validatePeptide(p); err != nil {
		return nil, err
	}
	if !strings.EqualFold(prevName, p.Name) {
		existing, err := s.peptideRepo.GetByName(dbc, p.Name)
		if err != nil {
			return nil, db.MapError("check peptide name", err)
		}
		if existing != nil && existing.ID != p.ID {
			return nil, fmt.Errorf("peptide %q already exists: %w", p.Name, pkgerrors.ErrConflict)
		}
	}
	if err := s.peptideRepo.UpdateFields(dbc, id, peptideColumns(p)); err != nil {
		return nil, db.MapError("update peptide", err)
	}
	return p, nil
}

func (s *peptideService) Delete(ctx context.Context, id uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	deleted, err := s.peptideRepo.Delete(dbc, id)
	if err != nil {
		return db.MapError("delete peptide", err)
	}
	if !deleted {
		return fmt.Errorf("peptide %s: %w", id, pkgerrors.ErrNotFound)
	}
	s.log.Info("peptide deleted", "peptide_id", id)
	return nil
}

// SeedCatalog loads the bundled catalog into an empty peptide table. A
// non-empty table is left alone and its size reported.
func (s *peptideService) SeedCatalog(ctx context.Context) (*SeedResult, error) {
	ctx = ctxutil.Default(ctx)
	peptides, err := seed.Peptides()
	if err != nil {
		return nil, err
	}
	var out *SeedResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.peptideRepo.Count(inner)
		if err != nil {
			return err
		}
		if n > 0 {
			out = &SeedResult{Seeded: false, Count: n}
			return nil
		}
		created, err := s.peptideRepo.Create(inner, peptides)
		if err != nil {
			return err
		}
		out = &SeedResult{Seeded: true, Count: int64(len(created)), Peptides: created}
		return nil
	})
	if err != nil {
		return nil, db.MapError("seed peptide catalog", err)
	}
	if out.Seeded {
		s.log.Info("peptide catalog seeded", "count", out.Count)
	}
	return out, nil
}

func (s *peptideService) ClearCatalog(ctx context.Context) (int64, error) {
	n, err := s.peptideRepo.DeleteAll(dbctx.Context{Ctx: ctxutil.Default(ctx)})
	if err != nil {
		return 0, db.MapError("clear peptide catalog", err)
	}
	s.log.WithContext(ctx).Warn("peptide catalog cleared", "count", n)
	return n, nil
}

func applyPeptideInput(p *types.Peptide, in PeptideInput) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&p.Name, in.Name)
	setString(&p.Category, in.Category)
	setString(&p.Description, in.Description)
	setString(&p.DetailedDescription, in.DetailedDescription)
	setString(&p.Mechanism, in.Mechanism)
	setString(&p.CommonDosage, in.CommonDosage)
	setString(&p.CommonFrequency, in.CommonFrequency)
	if in.CommonEffects != nil {
		p.CommonEffects = datatypes.JSONSlice[string](in.CommonEffects)
	}
	if in.SideEffects != nil {
		p.SideEffects = datatypes.JSONSlice[string](in.SideEffects)
	}
	if in.CommonStacks != nil {
		p.CommonStacks = datatypes.JSONSlice[string](in.CommonStacks)
	}
	if in.Popularity != nil {
		p.Popularity = *in.Popularity
	}
	if in.DosageRanges != nil {
		p.DosageRanges = *in.DosageRanges
	}
	if in.Timeline != nil {
		p.Timeline = *in.Timeline
	}
	p.Normalize()
}

func validatePeptide(p *types.Peptide) error {
	if p.Name == "" {
		return fmt.Errorf("peptide name is required: %w", pkgerrors.ErrInvalidArgument)
	}
	if !catalog.IsValidCategory(p.Category) {
		return fmt.Errorf("category must be one of %v: %w", catalog.Categories, pkgerrors.ErrInvalidArgument)
	}
	if p.Popularity < 0 || p.Popularity > 100 {
		return fmt.Errorf("popularity must be between 0 and 100: %w", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func peptideColumns(p *types.Peptide) map[string]interface{} {
	return map[string]interface{}{
		"name":                 p.Name,
		"category":             p.Category,
		"description":          p.Description,
		"detailed_description": p.DetailedDescription,
		"mechanism":            p.Mechanism,
		"common_dosage":        p.CommonDosage,
		"common_frequency":     p.CommonFrequency,
		"common_effects":       p.CommonEffects,
		"side_effects":         p.SideEffects,
		"common_stacks":        p.CommonStacks,
		"popularity":           p.Popularity,
		"dosage_low":           p.DosageRanges.Low,
		"dosage_medium":        p.DosageRanges.Medium,
		"dosage_high":          p.DosageRanges.High,
		"timeline_onset":       p.Timeline.Onset,
		"timeline_peak":        p.Timeline.Peak,
		"timeline_duration":    p.Timeline.Duration,
	}
}
