package experience

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VoteHelpful    = "helpful"
	VoteDetailed   = "detailed"
	VoteConcerning = "concerning"
)

var VoteTypes = []string{VoteHelpful, VoteDetailed, VoteConcerning}

func IsValidVoteType(v string) bool {
	for _, t := range VoteTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Vote is one user's single reaction to an experience.
type Vote struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_experience_vote_user_experience,priority:1" json:"userId"`
	ExperienceID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_experience_vote_user_experience,priority:2" json:"experienceId"`
	Type         string    `gorm:"not null" json:"type"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Vote) TableName() string { return "experience_vote" }

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now().UTC()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	if v.UpdatedAt.IsZero() {
		v.UpdatedAt = now
	}
	return nil
}
