package catalog

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type EffectRepo interface {
	Create(dbc dbctx.Context, effects []*types.Effect) ([]*types.Effect, error)
	List(dbc dbctx.Context, filter types.EffectFilter) ([]*types.Effect, error)
	DeleteAll(dbc dbctx.Context) (int64, error)
	Count(dbc dbctx.Context) (int64, error)
}

type effectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEffectRepo(db *gorm.DB, baseLog *logger.Logger) EffectRepo {
	return &effectRepo{
		db:  db,
		log: baseLog.With("repo", "EffectRepo"),
	}
}

func (r *effectRepo) Create(dbc dbctx.Context, effects []*types.Effect) ([]*types.Effect, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(effects) == 0 {
		return []*types.Effect{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&effects).Error; err != nil {
		return nil, err
	}
	return effects, nil
}

// List returns effects ordered by type then name. Category matches
// case-insensitively.
func (r *effectRepo) List(dbc dbctx.Context, filter types.EffectFilter) ([]*types.Effect, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.Effect{})
	if t := strings.TrimSpace(filter.Type); t != "" {
		q = q.Where("type = ?", strings.ToLower(t))
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("LOWER(category) = ?", strings.ToLower(c))
	}
	out := []*types.Effect{}
	if err := q.Order("type DESC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *effectRepo) DeleteAll(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Effect{})
	return res.RowsAffected, res.Error
}

func (r *effectRepo) Count(dbc dbctx.Context) (int64, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var n int64
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Effect{}).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
