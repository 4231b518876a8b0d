package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/peptide-insights-backend/internal/clients/redis"
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

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	trackingIDPrefix   = "EXP-"
	trackingIDAttempts = 5
	idempotencyScope   = "experience"

	idempotencySettleTimeout = 5 * time.Second
)

// ExperienceInput is the submission payload.
type ExperienceInput struct {
	PeptideID             string             `json:"peptideId"`
	Dosage                string             `json:"dosage"`
	Frequency             string             `json:"frequency"`
	Duration              int                `json:"duration"`
	RouteOfAdministration string             `json:"routeOfAdministration"`
	PrimaryPurpose        []string           `json:"primaryPurpose"`
	Demographics          types.Demographics `json:"demographics"`
	Outcomes              types.Outcomes     `json:"outcomes"`
	Effects               []string           `json:"effects"`
	Timeline              string             `json:"timeline"`
	Story                 string             `json:"story"`
	Stack                 []string           `json:"stack"`
	Sourcing              types.Sourcing     `json:"sourcing"`
}

type ListParams struct {
	PeptideID string
	Page      int
	Limit     int
	Sort      string
}

type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

type ExperiencePage struct {
	Experiences []*types.Experience `json:"experiences"`
	Pagination  Pagination          `json:"pagination"`
}

// IdempotencyStore deduplicates retried submissions. See redis.IdempotencyStore.
type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key string) (redis.IdempotencyState, string, error)
	Complete(ctx context.Context, scope, key, result string) error
	Abort(ctx context.Context, scope, key string) error
}

type ExperienceService interface {
	// Create stores a submission for the caller. replayed is true when an
	// earlier request with the same idempotency key already created it.
	Create(ctx context.Context, in ExperienceInput, idempotencyKey string) (exp *types.Experience, replayed bool, err error)
	List(ctx context.Context, params ListParams) (*ExperiencePage, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Experience, error)
	GetByTrackingID(ctx context.Context, trackingID string) (*types.Experience, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type experienceService struct {
	db             *gorm.DB
	log            *logger.Logger
	experienceRepo repos.ExperienceRepo
	peptideRepo    repos.PeptideRepo
	idempotency    IdempotencyStore
	metrics        *observability.Metrics
	newTrackingID  func() string
}

func NewExperienceService(
	db *gorm.DB,
	log *logger.Logger,
	experienceRepo repos.ExperienceRepo,
	peptideRepo repos.PeptideRepo,
	idempotency IdempotencyStore,
	metrics *observability.Metrics,
) ExperienceService {
	return &experienceService{
		db:             db,
		log:            log.With("service", "ExperienceService"),
		experienceRepo: experienceRepo,
		peptideRepo:    peptideRepo,
		idempotency:    idempotency,
		metrics:        metrics,
		newTrackingID:  randomTrackingID,
	}
}

func (s *experienceService) Create(ctx context.Context, in ExperienceInput, idempotencyKey string) (*types.Experience, bool, error) {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, false, pkgerrors.ErrUnauthorized
	}
	peptideID, err := validateExperienceInput(in)
	if err != nil {
		return nil, false, err
	}

	idempotencyKey = strings.TrimSpace(idempotencyKey)
	scope := idempotencyScope + ":" + userID.String()
	claimed := false
	if idempotencyKey != "" && s.idempotency != nil {
		state, result, err := s.idempotency.Begin(ctx, scope, idempotencyKey)
		switch {
		case err != nil:
			s.log.WithContext(ctx).Warn("idempotency store unavailable, submitting without dedup", "error", err, "idempotency_key", idempotencyKey)
		case state == redis.IdempotencyDone:
			return s.replay(ctx, result)
		case state == redis.IdempotencyInFlight:
			return nil, false, fmt.Errorf("a submission with this Idempotency-Key is in progress: %w", pkgerrors.ErrConflict)
		default:
			claimed = true
		}
	}

	exp, err := s.create(ctx, userID, peptideID, in)
	if err != nil {
		if claimed {
			settleCtx, cancel := settleContext(ctx)
			if abortErr := s.idempotency.Abort(settleCtx, scope, idempotencyKey); abortErr != nil {
				s.log.WithContext(ctx).Warn("failed to release idempotency key", "error", abortErr, "idempotency_key", idempotencyKey)
			}
			cancel()
		}
		return nil, false, err
	}
	if claimed {
		settleCtx, cancel := settleContext(ctx)
		if err := s.idempotency.Complete(settleCtx, scope, idempotencyKey, exp.ID.String()); err != nil {
			s.log.WithContext(ctx).Warn("failed to record idempotency result", "error", err, "idempotency_key", idempotencyKey)
		}
		cancel()
	}
	s.metrics.IncExperienceSubmitted()
	s.log.Info("experience created", "experience_id", exp.ID, "tracking_id", exp.TrackingID, "peptide_id", exp.PeptideID, "user_id", userID)
	return exp, false, nil
}

// settleContext detaches from the request so a claimed key is released or
// completed even after the client goes away.
func settleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), idempotencySettleTimeout)
}

func (s *experienceService) replay(ctx context.Context, result string) (*types.Experience, bool, error) {
	id, err := uuid.Parse(result)
	if err != nil {
		return nil, false, fmt.Errorf("stored idempotency result %q is not an experience id: %w", result, pkgerrors.ErrConflict)
	}
	exp, err := s.experienceRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, false, db.MapError("load replayed experience", err)
	}
	if exp == nil {
		return nil, false, fmt.Errorf("replayed experience %s: %w", id, pkgerrors.ErrNotFound)
	}
	s.metrics.IncIdempotentReplay()
	return exp, true, nil
}

func (s *experienceService) create(ctx context.Context, userID, peptideID uuid.UUID, in ExperienceInput) (*types.Experience, error) {
	var exp *types.Experience
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		p, err := s.peptideRepo.GetByID(inner, peptideID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("peptide %s does not exist: %w", peptideID, pkgerrors.ErrInvalidArgument)
		}
		trackingID, err := s.uniqueTrackingID(inner)
		if err != nil {
			return err
		}
		exp = &types.Experience{
			UserID:                userID,
			PeptideID:             p.ID,
			PeptideName:           p.Name,
			TrackingID:            trackingID,
			Dosage:                strings.TrimSpace(in.Dosage),
			Frequency:             in.Frequency,
			Duration:              in.Duration,
			RouteOfAdministration: in.RouteOfAdministration,
			PrimaryPurpose:        cleanList(in.PrimaryPurpose),
			Demographics:          in.Demographics,
			Outcomes:              in.Outcomes,
			Effects:               cleanList(in.Effects),
			Timeline:              in.Timeline,
			Story:                 strings.TrimSpace(in.Story),
			Stack:                 cleanList(in.Stack),
			Sourcing:              in.Sourcing,
			IsActive:              true,
		}
		_, err = s.experienceRepo.Create(inner, []*types.Experience{exp})
		return err
	})
	if err != nil {
		return nil, db.MapError("create experience", err)
	}
	return exp, nil
}

func (s *experienceService) uniqueTrackingID(dbc dbctx.Context) (string, error) {
	for i := 0; i < trackingIDAttempts; i++ {
		id := s.newTrackingID()
		exists, err := s.experienceRepo.TrackingIDExists(dbc, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique tracking id: %w", pkgerrors.ErrConflict)
}

func randomTrackingID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return trackingIDPrefix + strings.ToUpper(raw[:8])
}

func (s *experienceService) List(ctx context.Context, params ListParams) (*ExperiencePage, error) {
	dbc := dbctx.Context{Ctx: ctxutil.Default(ctx)}
	q, page, err := listQuery(params)
	if err != nil {
		return nil, err
	}
	exps, total, err := s.experienceRepo.List(dbc, q)
	if err != nil {
		return nil, db.MapError("list experiences", err)
	}
	pages := 0
	if total > 0 {
		pages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	return &ExperiencePage{
		Experiences: exps,
		Pagination: Pagination{
			Page:    page,
			Limit:   q.Limit,
			Total:   total,
			Pages:   pages,
			HasNext: page < pages,
			HasPrev: page > 1,
		},
	}, nil
}

func listQuery(params ListParams) (types.ExperienceListQuery, int, error) {
	page := params.Page
	if page <= 0 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	sort := strings.ToLower(strings.TrimSpace(params.Sort))
	if sort == "" {
		sort = experience.SortNewest
	}
	if !experience.IsValidSort(sort) {
		return types.ExperienceListQuery{}, 0, fmt.Errorf("sort must be newest, oldest or helpful: %w", pkgerrors.ErrInvalidArgument)
	}
	q := types.ExperienceListQuery{
		Sort:   sort,
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if raw := strings.TrimSpace(params.PeptideID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return types.ExperienceListQuery{}, 0, fmt.Errorf("peptideId %q is not a valid id: %w", raw, pkgerrors.ErrInvalidArgument)
		}
		q.PeptideID = &id
	}
	return q, page, nil
}

func (s *experienceService) Get(ctx context.Context, id uuid.UUID) (*types.Experience, error) {
	exp, err := s.experienceRepo.GetByID(dbctx.Context{Ctx: ctxutil.Default(ctx)}, id)
	if err != nil {
		return nil, db.MapError("get experience", err)
	}
	if exp == nil || !exp.IsActive {
		return nil, fmt.Errorf("experience %s: %w", id, pkgerrors.ErrNotFound)
	}
	return exp, nil
}

func (s *experienceService) GetByTrackingID(ctx context.Context, trackingID string) (*types.Experience, error) {
	trackingID = strings.ToUpper(strings.TrimSpace(trackingID))
	exp, err := s.experienceRepo.GetByTrackingID(dbctx.Context{Ctx: ctxutil.Default(ctx)}, trackingID)
	if err != nil {
		return nil, db.MapError("get experience by tracking id", err)
	}
	if exp == nil || !exp.IsActive {
		return nil, fmt.Errorf("experience %s: %w", trackingID, pkgerrors.ErrNotFound)
	}
	return exp, nil
}

// Delete soft-deletes the caller's own experience.
func (s *experienceService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.Default(ctx)
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return pkgerrors.ErrUnauthorized
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		exp, err := s.experienceRepo.GetByID(inner, id)
		if err != nil {
			return err
		}
		if exp == nil || !exp.IsActive {
			return fmt.Errorf("experience %s: %w", id, pkgerrors.ErrNotFound)
		}
		if exp.UserID != userID {
			return fmt.Errorf("experience %s belongs to another user: %w", id, pkgerrors.ErrForbidden)
		}
		_, err = s.experienceRepo.SetActive(inner, id, false)
		return err
	})
	if err != nil {
		return db.MapError("delete experience", err)
	}
	s.log.Info("experience deactivated", "experience_id", id, "user_id", userID)
	return nil
}

func validateExperienceInput(in ExperienceInput) (uuid.UUID, error) {
	invalid := func(format string, args ...interface{}) (uuid.UUID, error) {
		return uuid.Nil, fmt.Errorf(format+": %w", append(args, pkgerrors.ErrInvalidArgument)...)
	}
	peptideID, err := uuid.Parse(strings.TrimSpace(in.PeptideID))
	if err != nil {
		return invalid("peptideId %q is not a valid id", in.PeptideID)
	}
	if strings.TrimSpace(in.Dosage) == "" {
		return invalid("dosage is required")
	}
	if !experience.IsValidFrequency(in.Frequency) {
		return invalid("frequency %q is not supported", in.Frequency)
	}
	if in.Duration < 1 {
		return invalid("duration must be at least 1")
	}
	if !experience.IsValidRoute(in.RouteOfAdministration) {
		return invalid("routeOfAdministration %q is not supported", in.RouteOfAdministration)
	}
	if len(cleanList(in.PrimaryPurpose)) == 0 {
		return invalid("at least one primary purpose is required")
	}
	if err := in.Outcomes.Validate(); err != nil {
		return invalid("%s", err.Error())
	}
	if len(cleanList(in.Effects)) == 0 {
		return invalid("at least one effect is required")
	}
	if !experience.IsValidTimeline(in.Timeline) {
		return invalid("timeline %q is not supported", in.Timeline)
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Story)) > experience.MaxStoryLength {
		return invalid("story must be at most %d characters", experience.MaxStoryLength)
	}
	if err := in.Demographics.Validate(); err != nil {
		return invalid("%s", err.Error())
	}
	if err := in.Sourcing.Validate(); err != nil {
		return invalid("%s", err.Error())
	}
	return peptideID, nil
}

func cleanList(in []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
