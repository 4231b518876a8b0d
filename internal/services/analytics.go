package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/peptide-insights-backend/internal/analytics"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/ctxutil"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

// ExperienceStore is the read side the aggregations need. Implemented by the
// Postgres experience repo and the legacy MongoDB reader.
type ExperienceStore interface {
	FindActiveExperiences(dbc dbctx.Context, filter types.ExperienceFilter) ([]*types.Experience, error)
}

// PeptideCatalog resolves peptide display data. Empty ids means the whole
// catalog.
type PeptideCatalog interface {
	FindPeptides(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Peptide, error)
}

// Overview is the combined payload of GET /api/analytics.
type Overview struct {
	analytics.UsageSummary
	EffectivenessData []analytics.EffectivenessEntry `json:"effectivenessData"`
}

type AnalyticsService interface {
	GetUsageSummary(ctx context.Context) (analytics.UsageSummary, error)
	GetEffectiveness(ctx context.Context) ([]analytics.EffectivenessEntry, error)
	GetTrends(ctx context.Context, period string, limit int) ([]analytics.TrendPoint, error)
	GetComparison(ctx context.Context, peptideIDs []string) ([]analytics.ComparisonRow, error)
	GetOverview(ctx context.Context) (*Overview, error)
}

type AnalyticsOptions struct {
	// QueryTimeout bounds each operation including its store reads. Zero
	// disables the deadline.
	QueryTimeout time.Duration
	Metrics      *observability.Metrics
	Now          func() time.Time
}

type analyticsService struct {
	log         *logger.Logger
	experiences ExperienceStore
	catalog     PeptideCatalog
	timeout     time.Duration
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewAnalyticsService(log *logger.Logger, experiences ExperienceStore, catalog PeptideCatalog, opts AnalyticsOptions) AnalyticsService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &analyticsService{
		log:         log.With("service", "AnalyticsService"),
		experiences: experiences,
		catalog:     catalog,
		timeout:     opts.QueryTimeout,
		metrics:     opts.Metrics,
		now:         now,
	}
}

func (s *analyticsService) GetUsageSummary(ctx context.Context) (analytics.UsageSummary, error) {
	var out analytics.UsageSummary
	err := s.run(ctx, "usage_summary", func(ctx context.Context) error {
		exps, err := s.loadExperiences(ctx, types.ExperienceFilter{})
		if err != nil {
			return err
		}
		catalog, err := s.loadCatalog(ctx, peptideIDsOf(exps))
		if err != nil {
			return err
		}
		out = analytics.Summarize(exps, catalog)
		return nil
	})
	return out, err
}

func (s *analyticsService) GetEffectiveness(ctx context.Context) ([]analytics.EffectivenessEntry, error) {
	var out []analytics.EffectivenessEntry
	err := s.run(ctx, "effectiveness", func(ctx context.Context) error {
		exps, err := s.loadExperiences(ctx, types.ExperienceFilter{})
		if err != nil {
			return err
		}
		catalog, err := s.loadCatalog(ctx, peptideIDsOf(exps))
		if err != nil {
			return err
		}
		out = analytics.Effectiveness(exps, catalog)
		return nil
	})
	return out, err
}

func (s *analyticsService) GetTrends(ctx context.Context, period string, limit int) ([]analytics.TrendPoint, error) {
	var out []analytics.TrendPoint
	err := s.run(ctx, "trends", func(ctx context.Context) error {
		p, err := analytics.ParsePeriod(period)
		if err != nil {
			return err
		}
		if err := analytics.ValidateLimit(limit); err != nil {
			return err
		}
		if limit == 0 {
			out = []analytics.TrendPoint{}
			return nil
		}
		at := s.now().UTC()
		from, to := analytics.TrendWindow(p, limit, at)
		exps, err := s.loadExperiences(ctx, types.ExperienceFilter{CreatedFrom: from, CreatedTo: to})
		if err != nil {
			return err
		}
		out = analytics.Trend(exps, p, limit, at)
		return nil
	})
	return out, err
}

func (s *analyticsService) GetComparison(ctx context.Context, peptideIDs []string) ([]analytics.ComparisonRow, error) {
	var out []analytics.ComparisonRow
	err := s.run(ctx, "comparison", func(ctx context.Context) error {
		ids, err := parseComparisonIDs(peptideIDs)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			out = []analytics.ComparisonRow{}
			return nil
		}
		exps, err := s.loadExperiences(ctx, types.ExperienceFilter{PeptideIDs: ids})
		if err != nil {
			return err
		}
		catalog, err := s.loadCatalog(ctx, ids)
		if err != nil {
			return err
		}
		out = analytics.Compare(ids, exps, catalog)
		return nil
	})
	return out, err
}

// GetOverview computes the usage summary and effectiveness concurrently.
// Either failure fails the whole overview.
func (s *analyticsService) GetOverview(ctx context.Context) (*Overview, error) {
	ctx = ctxutil.Default(ctx)
	var (
		summary analytics.UsageSummary
		entries []analytics.EffectivenessEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = s.GetUsageSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		entries, err = s.GetEffectiveness(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Overview{UsageSummary: summary, EffectivenessData: entries}, nil
}

func (s *analyticsService) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx = ctxutil.Default(ctx)
	ctx, span := observability.Tracer().Start(ctx, "analytics."+op)
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	s.metrics.ObserveAnalytics(op, elapsed, err)
	span.SetAttributes(attribute.Int64("analytics.duration_ms", elapsed.Milliseconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			s.log.WithContext(ctx).Debug("analytics request rejected", "operation", op, "error", err)
		} else {
			s.log.WithContext(ctx).Warn("analytics operation failed", "operation", op, "duration_ms", elapsed.Milliseconds(), "error", err)
		}
		return err
	}
	s.log.Debug("analytics operation done", "operation", op, "duration_ms", elapsed.Milliseconds())
	return nil
}

func (s *analyticsService) loadExperiences(ctx context.Context, filter types.ExperienceFilter) ([]*types.Experience, error) {
	exps, err := s.experiences.FindActiveExperiences(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, storeUnavailable("load experiences", err)
	}
	return exps, nil
}

func (s *analyticsService) loadCatalog(ctx context.Context, ids []uuid.UUID) (analytics.Catalog, error) {
	if len(ids) == 0 {
		return analytics.Catalog{}, nil
	}
	peptides, err := s.catalog.FindPeptides(dbctx.Context{Ctx: ctx}, ids)
	if err != nil {
		return nil, storeUnavailable("load peptide catalog", err)
	}
	return analytics.NewCatalog(peptides), nil
}

func storeUnavailable(op string, err error) error {
	if errors.Is(err, pkgerrors.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, pkgerrors.ErrStoreUnavailable, err)
}

func peptideIDsOf(exps []*types.Experience) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	out := make([]uuid.UUID, 0)
	for _, e := range exps {
		if e == nil || seen[e.PeptideID] {
			continue
		}
		seen[e.PeptideID] = true
		out = append(out, e.PeptideID)
	}
	return out
}

// parseComparisonIDs trims and de-duplicates caller IDs. Blank entries are
// dropped; an empty list is invalid. Entries that are not UUIDs cannot match
// any peptide and are skipped.
func parseComparisonIDs(raw []string) ([]uuid.UUID, error) {
	var given int
	seen := make(map[uuid.UUID]bool, len(raw))
	out := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		given++
		id, err := uuid.Parse(r)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if given == 0 {
		return nil, fmt.Errorf("no peptide IDs given: %w", pkgerrors.ErrInvalidArgument)
	}
	return out, nil
}
