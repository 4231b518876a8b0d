package experiences

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/domain/experience"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type ExperienceRepo interface {
	Create(dbc dbctx.Context, exps []*types.Experience) ([]*types.Experience, error)
	Upsert(dbc dbctx.Context, exps []*types.Experience) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Experience, error)
	GetByTrackingID(dbc dbctx.Context, trackingID string) (*types.Experience, error)
	TrackingIDExists(dbc dbctx.Context, trackingID string) (bool, error)
	List(dbc dbctx.Context, q types.ExperienceListQuery) ([]*types.Experience, int64, error)
	FindActiveExperiences(dbc dbctx.Context, filter types.ExperienceFilter) ([]*types.Experience, error)
	SetActive(dbc dbctx.Context, id uuid.UUID, active bool) (bool, error)
	UpdateVoteCounts(dbc dbctx.Context, id uuid.UUID, helpful, total int) error
}

type experienceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExperienceRepo(db *gorm.DB, baseLog *logger.Logger) ExperienceRepo {
	return &experienceRepo{
		db:  db,
		log: baseLog.With("repo", "ExperienceRepo"),
	}
}

func (r *experienceRepo) Create(dbc dbctx.Context, exps []*types.Experience) ([]*types.Experience, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(exps) == 0 {
		return []*types.Experience{}, nil
	}
	// Select("*") so a false IsActive is written rather than skipped as a zero value.
	if err := transaction.WithContext(dbc.Ctx).Select("*").Create(&exps).Error; err != nil {
		return nil, err
	}
	return exps, nil
}

// Upsert inserts experiences or overwrites the row with the same ID. Vote
// counters are left untouched on update.
func (r *experienceRepo) Upsert(dbc dbctx.Context, exps []*types.Experience) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(exps) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Select("*").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"peptide_id",
				"peptide_name",
				"dosage",
				"frequency",
				"duration",
				"route_of_administration",
				"primary_purpose",
				"effects",
				"stack",
				"timeline",
				"story",
				"outcome_energy",
				"outcome_sleep",
				"outcome_mood",
				"outcome_performance",
				"outcome_recovery",
				"outcome_side_effects",
				"demographic_age_range",
				"demographic_biological_sex",
				"demographic_activity_level",
				"sourcing_vendor_url",
				"sourcing_batch_id",
				"sourcing_purity_percentage",
				"sourcing_volume_ml",
				"tracking_id",
				"is_active",
				"updated_at",
			}),
		}).
		Create(&exps).Error
}

func (r *experienceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Experience, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Experience
	if err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *experienceRepo) GetByTrackingID(dbc dbctx.Context, trackingID string) (*types.Experience, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if trackingID == "" {
		return nil, nil
	}
	var out []*types.Experience
	if err := transaction.WithContext(dbc.Ctx).
		Where("tracking_id = ?", trackingID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *experienceRepo) TrackingIDExists(dbc dbctx.Context, trackingID string) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Experience{}).
		Where("tracking_id = ?", trackingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List pages through active experiences and returns the total match count.
func (r *experienceRepo) List(dbc dbctx.Context, q types.ExperienceListQuery) ([]*types.Experience, int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	base := transaction.WithContext(dbc.Ctx).
		Model(&types.Experience{}).
		Where("is_active = ?", true)
	if q.PeptideID != nil {
		base = base.Where("peptide_id = ?", *q.PeptideID)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	out := []*types.Experience{}
	page := base.Session(&gorm.Session{})
	switch q.Sort {
	case experience.SortOldest:
		page = page.Order("created_at ASC").Order("id ASC")
	case experience.SortHelpful:
		page = page.Order("helpful_votes DESC").Order("created_at DESC").Order("id ASC")
	default:
		page = page.Order("created_at DESC").Order("id ASC")
	}
	if q.Offset > 0 {
		page = page.Offset(q.Offset)
	}
	if q.Limit > 0 {
		page = page.Limit(q.Limit)
	}
	if err := page.Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// FindActiveExperiences scans active experiences matching filter, oldest
// first.
func (r *experienceRepo) FindActiveExperiences(dbc dbctx.Context, filter types.ExperienceFilter) ([]*types.Experience, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).
		Model(&types.Experience{}).
		Where("is_active = ?", true)
	if len(filter.PeptideIDs) > 0 {
		q = q.Where("peptide_id IN ?", filter.PeptideIDs)
	}
	if !filter.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", filter.CreatedFrom.UTC())
	}
	if !filter.CreatedTo.IsZero() {
		q = q.Where("created_at < ?", filter.CreatedTo.UTC())
	}
	out := []*types.Experience{}
	if err := q.Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *experienceRepo) SetActive(dbc dbctx.Context, id uuid.UUID, active bool) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Experience{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *experienceRepo) UpdateVoteCounts(dbc dbctx.Context, id uuid.UUID, helpful, total int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Experience{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"helpful_votes": helpful,
			"total_votes":   total,
			"updated_at":    time.Now().UTC(),
		}).Error
}
