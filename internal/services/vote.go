package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/data/db"
	"github.com/yungbote/peptide-insights-backend/internal/data/repos"
	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/experience"
	"github.com/yungbote/peptide-insights-backend/internal/observability"
	pkgerrors "github.com/yungbote/peptide-insights-backend/internal/pkg/errors"
	"github.com/yungbote/peptide-insights-backend/internal/platform/ctxutil"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type VoteCounts struct {
	Helpful    int `json:"helpful"`
	Detailed   int `json:"detailed"`
	Concerning int `json:"concerning"`
	Total      int `json:"total"`
}

type VoteResult struct {
	Vote   *types.Vote `json:"vote"`
	Counts VoteCounts  `json:"counts"`
}

type VoteService interface {
	Submit(ctx context.Context, experienceID uuid.UUID, voteType string) (*VoteResult, error)
	Counts(ctx context.Context, experienceID uuid.UUID) (*VoteCounts, error)
	GetUserVote(ctx context.Context, experienceID uuid.UUID) (*types.Vote, error)
	Delete(ctx context.Context, experienceID uuid.UUID) (*VoteCounts, error)
}

type voteService struct {
	db             *gorm.DB
	log            *logger.Logger
	voteRepo       repos.VoteRepo
	experienceRepo repos.ExperienceRepo
	metrics        *observability.Metrics
}

func NewVoteService(db *gorm.DB, log *logger.Logger, voteRepo repos.VoteRepo, experienceRepo repos.ExperienceRepo, metrics *observability.Metrics) VoteService {
	return &voteService{
		db:             db,
		log:            log.With("service", "VoteService"),
		voteRepo:       voteRepo,
		experienceRepo: experienceRepo,
		metrics:        metrics,
	}
}

// Submit records or replaces the caller's vote and refreshes the counters
// on the experience in the same transaction.
func (s *voteService) Submit(ctx context.Context, experienceID uuid.UUID, voteType string) (*VoteResult, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	voteType = strings.ToLower(strings.TrimSpace(voteType))
	if !experience.IsValidVoteType(voteType) {
		return nil, fmt.Errorf("vote type must be helpful, detailed or concerning: %w", pkgerrors.ErrInvalidArgument)
	}

	var out *VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := s.requireActive(inner, experienceID); err != nil {
			return err
		}
		if err := s.voteRepo.Upsert(inner, &types.Vote{UserID: userID, ExperienceID: experienceID, Type: voteType}); err != nil {
			return err
		}
		counts, err := s.refreshCounts(inner, experienceID)
		if err != nil {
			return err
		}
		vote, err := s.voteRepo.GetByUserAndExperience(inner, userID, experienceID)
		if err != nil {
			return err
		}
		out = &VoteResult{Vote: vote, Counts: *counts}
		return nil
	})
	if err != nil {
		return nil, db.MapError("submit vote", err)
	}
	s.metrics.IncVote(voteType)
	return out, nil
}

func (s *voteService) Counts(ctx context.Context, experienceID uuid.UUID) (*VoteCounts, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	if err := s.requireActive(dbc, experienceID); err != nil {
		return nil, db.MapError("count votes", err)
	}
	byType, err := s.voteRepo.CountByType(dbc, experienceID)
	if err != nil {
		return nil, db.MapError("count votes", err)
	}
	counts := countsFrom(byType)
	return &counts, nil
}

// GetUserVote returns the caller's vote, or nil when there is none.
func (s *voteService) GetUserVote(ctx context.Context, experienceID uuid.UUID) (*types.Vote, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	vote, err := s.voteRepo.GetByUserAndExperience(dbctx.Context{Ctx: ctx}, userID, experienceID)
	if err != nil {
		return nil, db.MapError("get user vote", err)
	}
	return vote, nil
}

func (s *voteService) Delete(ctx context.Context, experienceID uuid.UUID) (*VoteCounts, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	var out *VoteCounts
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		removed, err := s.voteRepo.Delete(inner, userID, experienceID)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no vote on experience %s: %w", experienceID, pkgerrors.ErrNotFound)
		}
		out, err = s.refreshCounts(inner, experienceID)
		return err
	})
	if err != nil {
		return nil, db.MapError("delete vote", err)
	}
	return out, nil
}

func (s *voteService) requireActive(dbc dbctx.Context, experienceID uuid.UUID) error {
	exp, err := s.experienceRepo.GetByID(dbc, experienceID)
	if err != nil {
		return err
	}
	if exp == nil || !exp.IsActive {
		return fmt.Errorf("experience %s: %w", experienceID, pkgerrors.ErrNotFound)
	}
	return nil
}

func (s *voteService) refreshCounts(dbc dbctx.Context, experienceID uuid.UUID) (*VoteCounts, error) {
	byType, err := s.voteRepo.CountByType(dbc, experienceID)
	if err != nil {
		return nil, err
	}
	counts := countsFrom(byType)
	if err := s.experienceRepo.UpdateVoteCounts(dbc, experienceID, counts.Helpful, counts.Total); err != nil {
		return nil, err
	}
	return &counts, nil
}

func countsFrom(byType map[string]int) VoteCounts {
	c := VoteCounts{
		Helpful:    byType[experience.VoteHelpful],
		Detailed:   byType[experience.VoteDetailed],
		Concerning: byType[experience.VoteConcerning],
	}
	c.Total = c.Helpful + c.Detailed + c.Concerning
	return c
}
