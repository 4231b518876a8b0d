package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CategoryHealingRecovery = "Healing & Recovery"
	CategoryGrowthHormone   = "Growth Hormone"
	CategoryPerformance     = "Performance & Enhancement"
	CategoryAntiAging       = "Anti-Aging"
	CategoryCognitive       = "Cognitive Enhancement"
)

var Categories = []string{
	CategoryHealingRecovery,
	CategoryGrowthHormone,
	CategoryPerformance,
	CategoryAntiAging,
	CategoryCognitive,
}

func IsValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type DosageRanges struct {
	Low    string `gorm:"column:low;not null;default:''" json:"low" yaml:"low"`
	Medium string `gorm:"column:medium;not null;default:''" json:"medium" yaml:"medium"`
	High   string `gorm:"column:high;not null;default:''" json:"high" yaml:"high"`
}

type Timeline struct {
	Onset    string `gorm:"column:onset;not null;default:''" json:"onset" yaml:"onset"`
	Peak     string `gorm:"column:peak;not null;default:''" json:"peak" yaml:"peak"`
	Duration string `gorm:"column:duration;not null;default:''" json:"duration" yaml:"duration"`
}

// Peptide is a catalog entry. Experience statistics are never stored here;
// they are computed from active experiences on read.
type Peptide struct {
	ID                  uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id" yaml:"-"`
	Name                string                      `gorm:"uniqueIndex;not null;column:name" json:"name" yaml:"name"`
	Category            string                      `gorm:"not null;index;column:category" json:"category" yaml:"category"`
	Description         string                      `gorm:"type:text;not null;default:''" json:"description" yaml:"description"`
	DetailedDescription string                      `gorm:"type:text;not null;default:''" json:"detailedDescription" yaml:"detailedDescription"`
	Mechanism           string                      `gorm:"type:text;not null;default:''" json:"mechanism" yaml:"mechanism"`
	CommonDosage        string                      `gorm:"not null;default:''" json:"commonDosage" yaml:"commonDosage"`
	CommonFrequency     string                      `gorm:"not null;default:''" json:"commonFrequency" yaml:"commonFrequency"`
	CommonEffects       datatypes.JSONSlice[string] `json:"commonEffects" yaml:"commonEffects"`
	SideEffects         datatypes.JSONSlice[string] `json:"sideEffects" yaml:"sideEffects"`
	CommonStacks        datatypes.JSONSlice[string] `json:"commonStacks" yaml:"commonStacks"`
	Popularity          int                         `gorm:"not null;default:0" json:"popularity" yaml:"popularity"`
	DosageRanges        DosageRanges                `gorm:"embedded;embeddedPrefix:dosage_" json:"dosageRanges" yaml:"dosageRanges"`
	Timeline            Timeline                    `gorm:"embedded;embeddedPrefix:timeline_" json:"timeline" yaml:"timeline"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt" yaml:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt" yaml:"-"`
}

func (Peptide) TableName() string { return "peptide" }

func (p *Peptide) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// Normalize trims free-text fields in place.
func (p *Peptide) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Description = strings.TrimSpace(p.Description)
}
