package experience

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	FrequencyDaily         = "daily"
	FrequencyEveryOtherDay = "every-other-day"
	FrequencyTwiceWeekly   = "twice-weekly"
	FrequencyWeekly        = "weekly"
	FrequencyAsNeeded      = "as-needed"
)

const (
	RouteSubcutaneous  = "subcutaneous"
	RouteIntramuscular = "intramuscular"
	RouteOral          = "oral"
	RouteNasal         = "nasal"
)

const MaxStoryLength = 1000

type Demographics struct {
	AgeRange      string `gorm:"column:age_range;not null;default:''" json:"ageRange,omitempty" bson:"ageRange"`
	BiologicalSex string `gorm:"column:biological_sex;not null;default:''" json:"biologicalSex,omitempty" bson:"biologicalSex"`
	ActivityLevel string `gorm:"column:activity_level;not null;default:''" json:"activityLevel,omitempty" bson:"activityLevel"`
}

type Sourcing struct {
	VendorURL        string   `gorm:"column:vendor_url;not null;default:''" json:"vendorUrl,omitempty"`
	BatchID          string   `gorm:"column:batch_id;not null;default:''" json:"batchId,omitempty"`
	PurityPercentage *float64 `gorm:"column:purity_percentage" json:"purityPercentage,omitempty"`
	VolumeMl         *float64 `gorm:"column:volume_ml" json:"volumeMl,omitempty"`
}

// Experience is one user's report of using one peptide. Rows are never
// hard-deleted; IsActive=false removes them from listings and aggregates.
type Experience struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;index:idx_experience_user_created,priority:1" json:"userId"`
	PeptideID   uuid.UUID `gorm:"type:uuid;not null;index;index:idx_experience_peptide_created,priority:1" json:"peptideId"`
	PeptideName string    `gorm:"not null" json:"peptideName"`
	TrackingID  string    `gorm:"uniqueIndex;not null" json:"trackingId"`

	Dosage                string                      `gorm:"not null" json:"dosage"`
	Frequency             string                      `gorm:"not null" json:"frequency"`
	Duration              int                         `gorm:"not null" json:"duration"`
	RouteOfAdministration string                      `gorm:"not null" json:"routeOfAdministration"`
	PrimaryPurpose        datatypes.JSONSlice[string] `json:"primaryPurpose"`
	Demographics          Demographics                `gorm:"embedded;embeddedPrefix:demographic_" json:"demographics"`
	Outcomes              Outcomes                    `gorm:"embedded;embeddedPrefix:outcome_" json:"outcomes"`
	Effects               datatypes.JSONSlice[string] `json:"effects"`
	Timeline              string                      `gorm:"not null" json:"timeline"`
	Story                 string                      `gorm:"type:text;not null;default:''" json:"story,omitempty"`
	Stack                 datatypes.JSONSlice[string] `json:"stack"`
	Sourcing              Sourcing                    `gorm:"embedded;embeddedPrefix:sourcing_" json:"sourcing"`

	HelpfulVotes int  `gorm:"not null;default:0" json:"helpfulVotes"`
	TotalVotes   int  `gorm:"not null;default:0" json:"totalVotes"`
	IsActive     bool `gorm:"not null;index" json:"isActive"`

	CreatedAt time.Time `gorm:"not null;index;index:idx_experience_peptide_created,priority:2;index:idx_experience_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Experience) TableName() string { return "experience" }

func (e *Experience) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = e.CreatedAt
	}
	return nil
}

// Rating is the mean of the experience's rated outcomes.
func (e *Experience) Rating() (float64, bool) {
	if e == nil {
		return 0, false
	}
	return e.Outcomes.Mean()
}

func IsValidFrequency(v string) bool {
	switch v {
	case FrequencyDaily, FrequencyEveryOtherDay, FrequencyTwiceWeekly, FrequencyWeekly, FrequencyAsNeeded:
		return true
	}
	return false
}

func IsValidRoute(v string) bool {
	switch v {
	case RouteSubcutaneous, RouteIntramuscular, RouteOral, RouteNasal:
		return true
	}
	return false
}

func IsValidTimeline(v string) bool {
	switch v {
	case "immediately", "1-3-days", "1-week", "2-weeks", "3-4-weeks", "1-2-months", "no-effects":
		return true
	}
	return false
}

var (
	AgeRanges      = []string{"18-25", "25-30", "30-35", "35-40", "40-45", "45-50", "50+"}
	BiologicalSex  = []string{"male", "female", "prefer-not-to-say"}
	ActivityLevels = []string{"sedentary", "moderate", "active", "athletic"}
)

// Validate checks the optional demographic answers. Empty means unanswered.
func (d Demographics) Validate() error {
	checks := []struct {
		field string
		value string
		allow []string
	}{
		{"ageRange", d.AgeRange, AgeRanges},
		{"biologicalSex", d.BiologicalSex, BiologicalSex},
		{"activityLevel", d.ActivityLevel, ActivityLevels},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		if !contains(c.allow, c.value) {
			return fmt.Errorf("demographics.%s must be one of %v, got %q", c.field, c.allow, c.value)
		}
	}
	return nil
}

func (s Sourcing) Validate() error {
	if s.PurityPercentage != nil && (*s.PurityPercentage < 0 || *s.PurityPercentage > 100) {
		return fmt.Errorf("sourcing.purityPercentage must be between 0 and 100")
	}
	if s.VolumeMl != nil && *s.VolumeMl < 0 {
		return fmt.Errorf("sourcing.volumeMl must not be negative")
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
