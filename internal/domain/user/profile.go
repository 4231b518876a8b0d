package user

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	Genders        = []string{"male", "female", "other", "prefer-not-to-say"}
	ActivityLevels = []string{"sedentary", "lightly-active", "moderately-active", "very-active", "extremely-active"}
	FitnessGoals   = []string{"weight-loss", "muscle-gain", "strength", "endurance", "general-health", "recovery", "anti-aging"}
	WeightUnits    = []string{"kg", "lbs"}
	HeightUnits    = []string{"cm", "ft"}
)

const (
	MinAge, MaxAge       = 18, 120
	MinWeight, MaxWeight = 30.0, 500.0
	MinHeight, MaxHeight = 100.0, 250.0
)

type Demographics struct {
	Age               *int                        `gorm:"column:age" json:"age,omitempty"`
	Gender            string                      `gorm:"column:gender;not null;default:''" json:"gender,omitempty"`
	Weight            *float64                    `gorm:"column:weight" json:"weight,omitempty"`
	Height            *float64                    `gorm:"column:height" json:"height,omitempty"`
	ActivityLevel     string                      `gorm:"column:activity_level;not null;default:''" json:"activityLevel,omitempty"`
	FitnessGoals      datatypes.JSONSlice[string] `gorm:"column:fitness_goals" json:"fitnessGoals"`
	MedicalConditions datatypes.JSONSlice[string] `gorm:"column:medical_conditions" json:"medicalConditions"`
	Allergies         datatypes.JSONSlice[string] `gorm:"column:allergies" json:"allergies"`
}

type Units struct {
	Weight string `gorm:"column:weight;not null" json:"weight"`
	Height string `gorm:"column:height;not null" json:"height"`
}

// Boolean columns carry no database default so an explicit false is stored.
type Privacy struct {
	ShareAge    bool `gorm:"column:share_age;not null" json:"shareAge"`
	ShareGender bool `gorm:"column:share_gender;not null" json:"shareGender"`
	ShareWeight bool `gorm:"column:share_weight;not null" json:"shareWeight"`
	ShareHeight bool `gorm:"column:share_height;not null" json:"shareHeight"`
}

type Notifications struct {
	Email          bool `gorm:"column:email;not null" json:"email"`
	NewExperiences bool `gorm:"column:new_experiences;not null" json:"newExperiences"`
	WeeklyDigest   bool `gorm:"column:weekly_digest;not null" json:"weeklyDigest"`
}

type Preferences struct {
	Units         Units         `gorm:"embedded;embeddedPrefix:units_" json:"units"`
	Privacy       Privacy       `gorm:"embedded;embeddedPrefix:privacy_" json:"privacy"`
	Notifications Notifications `gorm:"embedded;embeddedPrefix:notify_" json:"notifications"`
}

// Profile holds what a user chose to tell about themselves. It is keyed by
// the subject of the caller's verified token; accounts live elsewhere.
type Profile struct {
	UserID       uuid.UUID    `gorm:"type:uuid;primaryKey;column:user_id" json:"userId"`
	Demographics Demographics `gorm:"embedded;embeddedPrefix:demographic_" json:"demographics"`
	Preferences  Preferences  `gorm:"embedded" json:"preferences"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Profile) TableName() string { return "user_profile" }

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}
	return nil
}

// DefaultProfile is what a user who never saved a profile sees.
func DefaultProfile(userID uuid.UUID) *Profile {
	return &Profile{
		UserID: userID,
		Demographics: Demographics{
			FitnessGoals:      datatypes.JSONSlice[string]{},
			MedicalConditions: datatypes.JSONSlice[string]{},
			Allergies:         datatypes.JSONSlice[string]{},
		},
		Preferences: Preferences{
			Units:         Units{Weight: "kg", Height: "cm"},
			Privacy:       Privacy{ShareAge: true, ShareGender: true},
			Notifications: Notifications{Email: true, WeeklyDigest: true},
		},
	}
}

func (p *Profile) Validate() error {
	d := p.Demographics
	if d.Age != nil && (*d.Age < MinAge || *d.Age > MaxAge) {
		return fmt.Errorf("age must be between %d and %d", MinAge, MaxAge)
	}
	if d.Weight != nil && (*d.Weight < MinWeight || *d.Weight > MaxWeight) {
		return fmt.Errorf("weight must be between %g and %g", MinWeight, MaxWeight)
	}
	if d.Height != nil && (*d.Height < MinHeight || *d.Height > MaxHeight) {
		return fmt.Errorf("height must be between %g and %g", MinHeight, MaxHeight)
	}
	if d.Gender != "" && !slices.Contains(Genders, d.Gender) {
		return fmt.Errorf("gender must be one of %v", Genders)
	}
	if d.ActivityLevel != "" && !slices.Contains(ActivityLevels, d.ActivityLevel) {
		return fmt.Errorf("activityLevel must be one of %v", ActivityLevels)
	}
	for _, g := range d.FitnessGoals {
		if !slices.Contains(FitnessGoals, g) {
			return fmt.Errorf("fitness goal %q must be one of %v", g, FitnessGoals)
		}
	}
	if !slices.Contains(WeightUnits, p.Preferences.Units.Weight) {
		return fmt.Errorf("weight unit must be one of %v", WeightUnits)
	}
	if !slices.Contains(HeightUnits, p.Preferences.Units.Height) {
		return fmt.Errorf("height unit must be one of %v", HeightUnits)
	}
	return nil
}
