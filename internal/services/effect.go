package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

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

type EffectSeedResult struct {
	Seeded  bool            `json:"seeded"`
	Count   int64           `json:"count"`
	Effects []*types.Effect `json:"effects,omitempty"`
}

type EffectService interface {
	List(ctx context.Context, filter types.EffectFilter) ([]*types.Effect, error)
	SeedEffects(ctx context.Context) (*EffectSeedResult, error)
	ClearEffects(ctx context.Context) (int64, error)
}

type effectService struct {
	db         *gorm.DB
	log        *logger.Logger
	effectRepo repos.EffectRepo
}

func NewEffectService(db *gorm.DB, log *logger.Logger, effectRepo repos.EffectRepo) EffectService {
	return &effectService{
		db:         db,
		log:        log.With("service", "EffectService"),
		effectRepo: effectRepo,
	}
}

func (s *effectService) List(ctx context.Context, filter types.EffectFilter) ([]*types.Effect, error) {
	filter.Type = strings.ToLower(strings.TrimSpace(filter.Type))
	filter.Category = strings.TrimSpace(filter.Category)
	if filter.Type != "" && !catalog.IsValidEffectType(filter.Type) {
		return nil, fmt.Errorf("type must be one of %v: %w", catalog.EffectTypes, pkgerrors.ErrInvalidArgument)
	}
	out, err := s.effectRepo.List(dbctx.Context{Ctx: ctxutil.Default(ctx)}, filter)
	if err != nil {
		return nil, db.MapError("list effects", err)
	}
	return out, nil
}

// SeedEffects loads the bundled effects into an empty table. A non-empty
// table is left alone and its size reported.
func (s *effectService) SeedEffects(ctx context.Context) (*EffectSeedResult, error) {
	ctx = ctxutil.Default(ctx)
	effects, err := seed.Effects()
	if err != nil {
		return nil, err
	}
	var out *EffectSeedResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.effectRepo.Count(inner)
		if err != nil {
			return err
		}
		if n > 0 {
			out = &EffectSeedResult{Seeded: false, Count: n}
			return nil
		}
		created, err := s.effectRepo.Create(inner, effects)
		if err != nil {
			return err
		}
		out = &EffectSeedResult{Seeded: true, Count: int64(len(created)), Effects: created}
		return nil
	})
	if err != nil {
		return nil, db.MapError("seed effect catalog", err)
	}
	if out.Seeded {
		s.log.Info("effect catalog seeded", "count", out.Count)
	}
	return out, nil
}

func (s *effectService) ClearEffects(ctx context.Context) (int64, error) {
	n, err := s.effectRepo.DeleteAll(dbctx.Context{Ctx: ctxutil.Default(ctx)})
	if err != nil {
		return 0, db.MapError("clear effect catalog", err)
	}
	s.log.WithContext(ctx).Warn("effect catalog cleared", "count", n)
	return n, nil
}
