package experiences

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/peptide-insights-backend/internal/domain"
	"github.com/yungbote/peptide-insights-backend/internal/platform/dbctx"
	"github.com/yungbote/peptide-insights-backend/internal/platform/logger"
)

type VoteRepo interface {
	Upsert(dbc dbctx.Context, vote *types.Vote) error
	GetByUserAndExperience(dbc dbctx.Context, userID, experienceID uuid.UUID) (*types.Vote, error)
	CountByType(dbc dbctx.Context, experienceID uuid.UUID) (map[string]int, error)
	Delete(dbc dbctx.Context, userID, experienceID uuid.UUID) (bool, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{
		db:  db,
		log: baseLog.With("repo", "VoteRepo"),
	}
}

// Upsert records the caller's vote, replacing the type of an earlier vote on
// the same experience.
func (r *voteRepo) Upsert(dbc dbctx.Context, vote *types.Vote) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if vote == nil {
		return nil
	}
	vote.UpdatedAt = time.Now().UTC()
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "experience_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "updated_at"}),
		}).
		Create(vote).Error
}

func (r *voteRepo) GetByUserAndExperience(dbc dbctx.Context, userID, experienceID uuid.UUID) (*types.Vote, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Vote
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *voteRepo) CountByType(dbc dbctx.Context, experienceID uuid.UUID) (map[string]int, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var rows []struct {
		Type  string
		Count int
	}
	if err := transaction.WithContext(dbc.Ctx).
		Model(&types.Vote{}).
		Select("type, COUNT(*) AS count").
		Where("experience_id = ?", experienceID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Type] = row.Count
	}
	return out, nil
}

func (r *voteRepo) Delete(dbc dbctx.Context, userID, experienceID uuid.UUID) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(dbc.Ctx).
		Where("user_id = ? AND experience_id = ?", userID, experienceID).
		Delete(&types.Vote{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
