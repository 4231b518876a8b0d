package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EffectPositive = "positive"
	EffectNegative = "negative"
)

var (
	EffectTypes       = []string{EffectPositive, EffectNegative}
	EffectSeverities  = []string{"mild", "moderate", "severe"}
	EffectFrequencies = []string{"rare", "uncommon", "common", "very_common"}
)

// Effect is an entry of the effects picker offered when submitting an
// experience. Severity is only set on negative effects.
type Effect struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id" yaml:"-"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name" yaml:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description" yaml:"description"`
	Type        string    `gorm:"not null;index;column:type" json:"type" yaml:"type"`
	Category    string    `gorm:"not null;index;column:category" json:"category" yaml:"category"`
	Severity    string    `gorm:"not null;default:''" json:"severity,omitempty" yaml:"severity"`
	Frequency   string    `gorm:"not null;default:'common'" json:"frequency" yaml:"frequency"`
	IsCommon    bool      `gorm:"not null;default:false" json:"isCommon" yaml:"isCommon"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt" yaml:"-"`
}

func (Effect) TableName() string { return "effect" }

func (e *Effect) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	return nil
}

func (e *Effect) Normalize() {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Type = strings.ToLower(strings.TrimSpace(e.Type))
	e.Category = strings.TrimSpace(e.Category)
	e.Severity = strings.ToLower(strings.TrimSpace(e.Severity))
	e.Frequency = strings.ToLower(strings.TrimSpace(e.Frequency))
	if e.Frequency == "" {
		e.Frequency = "common"
	}
}

func IsValidEffectType(t string) bool { return oneOf(t, EffectTypes) }

func IsValidEffectSeverity(s string) bool { return oneOf(s, EffectSeverities) }

func IsValidEffectFrequency(f string) bool { return oneOf(f, EffectFrequencies) }

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// EffectFilter narrows an effects listing. Empty fields match everything.
type EffectFilter struct {
	Type     string
	Category string
}
