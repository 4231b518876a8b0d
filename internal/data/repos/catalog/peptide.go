package catalog

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type PeptideRepo interface {
	Create(dbc dbctx.Context, peptides []*types.Peptide) ([]*types.Peptide, error)
	Upsert(dbc dbctx.Context, peptides []*types.Peptide) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Peptide, error)
	GetByName(dbc dbctx.Context, name string) (*types.Peptide, error)
	FindPeptides(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Peptide, error)
	Search(dbc dbctx.Context, query string) ([]*types.Peptide, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, id uuid.UUID) (bool, error)
	DeleteAll(dbc dbctx.Context) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type peptideRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPeptideRepo(db *gorm.DB, baseLog *logger.Logger) PeptideRepo {
	return &peptideRepo{
		db:  db,
		log: baseLog.With("repo", "PeptideRepo"),
	}
}

func (r *peptideRepo) Create(dbc dbctx.Context, peptides []*types.Peptide) ([]*types.Peptide, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(peptides) == 0 {
		return []*types.Peptide{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&peptides).Error; err != nil {
		return nil, err
	}
	return peptides, nil
}

// Upsert inserts peptides or overwrites the row with the same ID.
func (r *peptideRepo) Upsert(dbc dbctx.Context, peptides []*types.Peptide) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(peptides) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&peptides).Error
}

func (r *peptideRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Peptide, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Peptide
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

func (r *peptideRepo) GetByName(dbc dbctx.Context, name string) (*types.Peptide, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	var out []*types.Peptide
	if err := transaction.WithContext(dbc.Ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// FindPeptides returns the peptides with the given IDs, or the whole catalog
// when ids is empty. Results are ordered by name.
func (r *peptideRepo) FindPeptides(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Peptide, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.Peptide{})
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	out := []*types.Peptide{}
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Search matches query case-insensitively against name, description and
// category.
func (r *peptideRepo) Search(dbc dbctx.Context, query string) ([]*types.Peptide, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.Peptide{}
	query = strings.TrimSpace(query)
	if query == "" {
		return out, nil
	}
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	if err := transaction.WithContext(dbc.Ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`, pattern, pattern, pattern).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *peptideRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Peptide{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *peptideRepo) Delete(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Peptide{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *peptideRepo) DeleteAll(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Peptide{})
	return res.RowsAffected, res.Error
}

func (r *peptideRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Peptide{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
